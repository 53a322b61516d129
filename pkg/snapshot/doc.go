// Package snapshot defines the snapshot file format and its writer and reader.
//
// A snapshot is one XML file per capture:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<user>
//	    <screen_name>@alice</screen_name>
//	    <id>1</id>
//	    <followers count="1">
//	        <user>
//	            <screen_name>@bob</screen_name>
//	            <id>2</id>
//	        </user>
//	    </followers>
//	    <following count="0"></following>
//	</user>
//
// Files are named `<handle>__<d>_<m>_<y>__<H>_<M>_<S>.xml` from the capture
// instant. Two captures within the same second share a name and the later one
// replaces the earlier.
package snapshot
