// Package diffx compares structured data semantically and reports
// differences as a typed result set. Documents from JSON, YAML, TOML, CSV,
// INI & XML are normalized into a single canonical value model before
// comparison, so two files in different formats can be diffed directly.
//
// Comparing structured data carries complexity the line-oriented unix diff
// doesn't have: whitespace & key order are semantically irrelevant, numeric
// values may need a tolerance, and some keys (timestamps, generated ids)
// should be excluded entirely. diffx handles these through a flat option
// set validated up front, and describes changes with four typed records:
//
//	Added       a value present only in the new document
//	Removed     a value present only in the old document
//	Modified    a same-kind value change at a path
//	TypeChanged a change of fundamental kind (eg. number -> string)
//
// Each result carries a path in dotted/bracketed notation ("config.port",
// "users[0].name", "users[id=1].role") and the value(s) involved.
//
// The package bridges three representations: host dynamic values (the
// interface{} trees Go decoders produce), the canonical Value model, and a
// string-keyed wire form for results. FromGo/ToGo convert values, Diff runs
// the whole pipeline host-form-in host-form-out, and ResultFromGo/ToGo
// round-trip results losslessly so they can cross a process or language
// boundary on their way to one of the output renderers (diffx, json, yaml,
// unified).
package diffx
