/*
Package uid provides a structured, type-safe representation of the asset
identifiers used to lay out generation outputs on disk.

Two grammars are recognised:

  - Numeric, `<global>_<local>`, e.g. `2014741_002`. The local part is
    exactly three digits and the tag is the last two digits of global.
  - Bucketed, `<bucket>/<hash>`, e.g.
    `000-0007/728277d4d33e4e5a927d2183861c32d9`. The tag is the bucket.

Parse prefers the numeric grammar whenever a string satisfies it. All
path derivation lives here so the on-disk layout is defined in one place:

	<root>/<tag>/<stem>/                     output directory (numeric only)
	<root>/<tag>/<global>/<stem>.glb         numeric mesh
	<root>/<bucket>/<hash>.glb               bucketed mesh
	<root>/<tag>/<stem>/process_dict.json    metadata record
*/
package uid
