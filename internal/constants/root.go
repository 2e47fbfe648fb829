package constants

const (
	AppName            = "steplog"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/steplog"
	DefaultConfigPath  = "~/.config/steplog/steplog.db"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "steplog-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "steplog-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.steplog"
	TrayExecutablePrefix   = "steplog-tray"
)
