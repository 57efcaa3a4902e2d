package models

type NotificationType string

const (
	NotificationNewReport       NotificationType = "new_report"
	NotificationAssigned        NotificationType = "assigned"
	NotificationProcessed       NotificationType = "processed"
	NotificationProcessApproved NotificationType = "process_approved"
	NotificationReturned        NotificationType = "returned"
	NotificationArchived        NotificationType = "archived"
	NotificationReassigned      NotificationType = "reassigned"
)

type SystemLogLevel string

const (
	SystemLogInfo  SystemLogLevel = "info"
	SystemLogWarn  SystemLogLevel = "warn"
	SystemLogError SystemLogLevel = "error"
)
