// Package nav implements the navigation cursor over the live folder
// index: random selection, sequential movement within a folder,
// folder-relative paging, and home positioning.
//
// All operations read the index directly rather than a cached flat list,
// so navigation stays correct while a scan is still registering files.
package nav
