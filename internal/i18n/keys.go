package i18n

// Message keys. Each constant must exist in every locales/*.json file.
const (
	MsgTrayShowWindow    = "tray.show_window"
	MsgTrayHideWindow    = "tray.hide_window"
	MsgTrayOpenBrowser   = "tray.open_browser"
	MsgTrayStatus        = "tray.status"
	MsgTrayQuit          = "tray.quit"
	MsgStatusRunning     = "status.running"
	MsgStatusStopped     = "status.stopped"
	MsgStatusUnreachable = "status.unreachable"
	MsgNotifyDaemonDown  = "notify.daemon_down"
	MsgNotifyDaemonUp    = "notify.daemon_up"
)
