// Package s3 provides an AWS S3 implementation of blobstore.BlobStore for
// model checkpoint storage.
//
// Quick start:
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("models/"))
//	rec, _ := aagnet.Open(ctx, store)
//
// When several uploaders publish checkpoints concurrently, wrap the store in
// a PointerStore: a DynamoDB table provides the conditional write S3 lacks,
// so the ACTIVE checkpoint pointer always moves atomically.
package s3
