package initializers

import (
	"context"
	"ncp-tracker-backend/config"
	s3client "ncp-tracker-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	minioClient, err := s3client.Connect(config.Conf.S3.Endpoint, config.Conf.S3.AccessKeyID,
		config.Conf.S3.SecretAccessKey, *config.Conf.S3.UseSSL)
	if err != nil {
		panic(err.Error())
	}
	s3client.Client = minioClient

	// photos are optional, the service starts without storage and logs upload errors
	if err = s3client.MakeBucket(ctx, minioClient, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).WithField("bucket", config.Conf.S3.BucketName).Error("S3 bucket check failed")
		return
	}
	log.Info("S3 client initialized")
}
