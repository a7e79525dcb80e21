// Package fileutil provides the directory traversal used to discover prefab
// files.
//
// # Purpose
//
// WalkTree drives a depth-first, top-down walk that hands each directory to a
// callback together with its own (filtered) files. Callers aggregate per
// directory and never see files from a subdirectory mixed into a parent.
//
// # Key Features
//
//   - Deterministic order: entries are visited lexically, files of a
//     directory before any of its subdirectories
//   - Subtree pruning through WalkOptions.SkipDir, applied to the root too
//   - Case-sensitive extension filter (".xml" does not match "A.XML")
//   - Only regular files are reported; pipes, sockets and devices are ignored
//   - Error tolerance: an unreadable subdirectory is recorded in
//     WalkResult.Errors and the walk continues with its siblings
//
// # Usage
//
//	result, err := fileutil.WalkTree("/games/7dtd/Data/Prefabs", fileutil.WalkOptions{
//	    Extension: ".xml",
//	    SkipDir: func(name, rel string) bool {
//	        return name == "CustomWorldPOIs"
//	    },
//	}, func(dir *fileutil.Directory) error {
//	    for _, f := range dir.Files {
//	        fmt.Println(filepath.Join(dir.Path, f))
//	    }
//	    return nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, err := range result.Errors {
//	    log.Printf("skipped: %v", err)
//	}
//
// # Standard Library Only
//
// The walk is built on os.ReadDir rather than filepath.WalkDir because
// WalkDir interleaves a directory's files with the contents of its
// subdirectories, which breaks per-directory aggregation.
package fileutil
