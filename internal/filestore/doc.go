// Package filestore reads and writes documents as flat UTF-8 text.
//
// Store is the file collaborator the editor talks to. It is called only in
// response to an explicit open or save, and a failure leaves the caller's
// buffer untouched. The FileSystem abstraction lets tests run against
// MemFS instead of the disk.
package filestore
