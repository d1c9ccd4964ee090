// Command server runs the clouddisk HTTP service: a per-user sandboxed
// file storage API with upload, browse, download and delete operations.
//
// Configuration comes from the environment (see internal/infrastructure/config).
package main
