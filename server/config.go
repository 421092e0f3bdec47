package server

import "github.com/cyclopcam/dbh"

type Config struct {
	DB           dbh.DBConfig  `json:"db"`
	VideoStorage StorageConfig `json:"videoStorage"`
	PoseSidecar  string        `json:"poseSidecar"` // URL of the pose estimation sidecar, eg "http://127.0.0.1:9505"
	MaxUploadMB  int64         `json:"maxUploadMB"` // Maximum video upload size. 0 = 50.
}

// One of the storage options must be configured (i.e. either 'filesystem' or 'gcs')
type StorageConfig struct {
	Filesystem *StorageConfigFS  `json:"filesystem"`
	GCS        *StorageConfigGCS `json:"gcs"`
}

type StorageConfigFS struct {
	Root string `json:"root"` // Path to the root of the filesystem
}

type StorageConfigGCS struct {
	Bucket string `json:"bucket"` // Name of the GCS bucket
}
