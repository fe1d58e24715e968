// Package minio provides a blobstore.BlobStore implementation for MinIO and
// other S3-compatible object stores.
//
// Quick start:
//
//	client, _ := minio.New("play.min.io", &minio.Options{...})
//	store := miniostore.NewStore(client, "models", "aagnet/")
package minio
