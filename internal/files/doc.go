// Package files locates sales exports on disk.
//
// A configured source may name a single export or a drop directory that
// receives a new export per period. Discovery lists the exports of a
// directory and ResolveSource picks the one a run should load:
//
//	discovery := files.NewDiscovery("/srv/sales")
//	exports, err := discovery.FindSourceFiles("incoming")
//
//	path, err := files.ResolveSource("/srv/sales/incoming")
//	// path is the most recently modified export in the directory
package files
