package initializers

import (
	"ncp-tracker-backend/config"
	"ncp-tracker-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	err := smtp.Connect(config.Conf.Smtp.User, config.Conf.Smtp.Password,
		config.Conf.Smtp.Host, config.Conf.Smtp.Port, *config.Conf.Smtp.TLSEnabled)
	if err != nil {
		panic(err.Error())
	}
	if *config.Conf.Notification.MailEnabled && !smtp.Instance.IsConfigured() {
		log.Warn("mail notifications enabled but SMTP is not configured")
	}
}
