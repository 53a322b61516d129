package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowCredentialGuide writes step-by-step instructions for obtaining API
// credentials from the Twitter developer portal
func ShowCredentialGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "📚 TWITTER API CREDENTIALS GUIDE")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "followdiff reads followers and following through the Twitter REST API.")
	fmt.Fprintln(w, "It signs every request with OAuth 1.0a user credentials:")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🌐 STEP 1: Open the developer portal")
	fmt.Fprintln(w, "   - Go to https://developer.twitter.com/en/portal/dashboard")
	fmt.Fprintln(w, "   - Sign in with the account whose contacts you want to track")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "📦 STEP 2: Create a project and an app")
	fmt.Fprintln(w, "   - Projects & Apps → Add App")
	fmt.Fprintln(w, "   - Read-only permissions are enough")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔑 STEP 3: Copy the keys from 'Keys and tokens':")
	fmt.Fprintln(w, "   ┌─────────────────────┬──────────────────────────────────────┐")
	fmt.Fprintln(w, "   │ Portal name         │ followdiff setting                   │")
	fmt.Fprintln(w, "   ├─────────────────────┼──────────────────────────────────────┤")
	fmt.Fprintln(w, "   │ API Key             │ api_key / FOLLOWDIFF_API_KEY         │")
	fmt.Fprintln(w, "   │ API Key Secret      │ api_secret_key                       │")
	fmt.Fprintln(w, "   │ Access Token        │ access_token                         │")
	fmt.Fprintln(w, "   │ Access Token Secret │ access_token_secret                  │")
	fmt.Fprintln(w, "   └─────────────────────┴──────────────────────────────────────┘")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "💡 TIPS:")
	fmt.Fprintln(w, "   • Secrets are shown only once; regenerate them if lost")
	fmt.Fprintln(w, "   • Regenerating a key invalidates the old one everywhere")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "⚠️  SECURITY WARNING:")
	fmt.Fprintln(w, "   • The access token acts as your account for every read the app makes")
	fmt.Fprintln(w, "   • NEVER commit these values to a repository")
	fmt.Fprintln(w, "   • `followdiff auth login` stores them in your keychain or an encrypted file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w)
}

// ShowQuickGuide writes a condensed version for experienced users
func ShowQuickGuide(w io.Writer) {
	fmt.Fprintln(w, "\n🔑 Quick Guide: developer portal → your app → Keys and tokens")
	fmt.Fprintln(w, "   Need: API key, API key secret, access token, access token secret")
	fmt.Fprintln(w, "   Type 'help' for detailed instructions")
}
