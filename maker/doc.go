// Package maker materializes templates.
//
// A template is a directory tree with an optional [ManifestName] file at its
// root. Without a manifest, [Load] copies the tree. With one, each entry is
// looked up by its slash-separated path relative to the template root and
// handled per its [Action]:
//
//	Auto    copy files and symlinks, descend into directories
//	Copy    copy files and symlinks, copy directories without the manifest
//	Make    expand file content with package lang
//	Ignore  skip the entry and its subtree
//
// An entry may also carry a name template. The expanded name replaces the
// base name of the destination, and an empty expansion ignores the entry.
//
// Before the walk, the manifest defaults, the variables from [InternalVars]
// and those of the caller are merged, and the optional pre command runs in
// the destination. The post command runs after the walk. [CopyTree] and
// [MakeTree] run the walk alone.
package maker
