package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr     string `default:"" env:"APP_HOST"`
		Port           int    `default:"8080"  env:"APP_PORT"`
		SwaggerEnabled *bool  `default:"true" env:"APP_SWAGGER_ENABLED"`
		SwaggerFile    string `default:"./docs/swagger.json" env:"APP_SWAGGER_FILE"`
		BodyLimitMb    int    `default:"10" env:"APP_BODY_LIMIT_MB"`
		CorsOrigins    string `default:"*" env:"APP_CORS_ORIGINS"`
		ErrNotifyAddr  string `default:"" env:"APP_ERR_NOTIFY_ADDR"` // 5xx responses are posted here when set
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"ncp-tracker" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret      string `default:"change-me" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"43200" env:"JWT_EXPIRE_IN_SEC"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"minioadmin" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"minioadmin" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"ncp-tracker" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	Notification struct {
		MailEnabled *bool  `default:"false" env:"NOTIFICATION_MAIL_ENABLED"`
		MailSender  string `default:"" env:"NOTIFICATION_MAIL_SENDER"` // From address, smtp user when empty
	}
	Housekeeping struct {
		Enabled                   *bool `default:"true" env:"HOUSEKEEPING_ENABLED"`
		NotificationRetentionDays int   `default:"90" env:"HOUSEKEEPING_NOTIFICATION_RETENTION_DAYS"` // read notifications only
		SystemLogRetentionDays    int   `default:"180" env:"HOUSEKEEPING_SYSTEM_LOG_RETENTION_DAYS"`
	}
	SuperAdmin struct {
		// created on start when no super_admin exists yet
		Username string `default:"" env:"SUPER_ADMIN_USERNAME"`
		Password string `default:"" env:"SUPER_ADMIN_PASSWORD"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
