// Package blobstore abstracts the storage service that holds trained model
// checkpoints.
//
// The recognizer only ever reads: it lists the checkpoint prefix, opens the
// matching blob and decodes it. Put/Delete exist for upload tooling and
// tests. Four backends are provided:
//
//   - MemoryStore: in-process map, for tests
//   - LocalStore:  directory on the local file system (mmap-backed reads)
//   - s3.Store:    native AWS S3, with an optional DynamoDB pointer table
//   - minio.Store: MinIO and other S3-compatible object stores
//
// Implement the BlobStore interface to support custom storage backends.
package blobstore
