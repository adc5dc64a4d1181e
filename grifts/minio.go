package grifts

import (
	"github.com/gobuffalo/grift/grift"

	"github.com/silinternational/claims-settlement-api/storage"
)

var _ = grift.Namespace("minio", func() {
	grift.Desc("seed", "Creates the ledger archive bucket in a local minIO, for development")
	_ = grift.Add("seed", func(c *grift.Context) error {
		return storage.CreateS3Bucket()
	})
})
