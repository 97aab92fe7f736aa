package domain

import "time"

const (
	AlertTitle        = "Location alert"
	AlertConfirmLabel = "ok"

	NotificationIdentifier = "locationUpdate"
	NotificationSound      = "default"
	NotificationDelay      = time.Second

	SettingsURL = "app-settings:"
)

// Dialog is a modal informational alert. SettingsLabel and SettingsURL
// describe an optional second action that opens the system settings.
type Dialog struct {
	Title         string `json:"title"`
	Message       string `json:"message"`
	ConfirmLabel  string `json:"confirm_label"`
	SettingsLabel string `json:"settings_label,omitempty"`
	SettingsURL   string `json:"settings_url,omitempty"`
}

func WelcomeDialog(message string) Dialog {
	return Dialog{Title: AlertTitle, Message: message, ConfirmLabel: AlertConfirmLabel}
}

func LocationAccessDialog() Dialog {
	return Dialog{
		Title:         "Allow Location Access",
		Message:       "App needs access to your location. Turn on Location Services in your device settings.",
		ConfirmLabel:  "Ok",
		SettingsLabel: "Settings",
		SettingsURL:   SettingsURL,
	}
}

type Notification struct {
	Identifier string        `json:"identifier"`
	Body       string        `json:"body"`
	Sound      string        `json:"sound"`
	Badge      int           `json:"badge"`
	Delay      time.Duration `json:"delay"`
	Repeats    bool          `json:"repeats"`
}

// WelcomeNotification builds the local notification for a region entry.
// currentBadge is the badge the device reports right now.
func WelcomeNotification(message string, currentBadge int) Notification {
	return Notification{
		Identifier: NotificationIdentifier,
		Body:       message,
		Sound:      NotificationSound,
		Badge:      currentBadge + 1,
		Delay:      NotificationDelay,
		Repeats:    false,
	}
}

type CommandAction string

const (
	RequestWhenInUse                 CommandAction = "request_when_in_use"
	RequestAlways                    CommandAction = "request_always"
	StartLocationUpdates             CommandAction = "start_location_updates"
	ShowUserLocation                 CommandAction = "show_user_location"
	RequestNotificationAuthorization CommandAction = "request_notification_authorization"
)

// DeviceCommand asks the device-side location service to do something.
type DeviceCommand struct {
	Action              CommandAction `json:"action"`
	Accuracy            string        `json:"accuracy,omitempty"`
	AllowsBackground    bool          `json:"allows_background,omitempty"`
	PausesAutomatically bool          `json:"pauses_automatically"`
	SignificantChanges  bool          `json:"significant_changes,omitempty"`
	Options             []string      `json:"options,omitempty"`
}

// NotificationAuthorizationCommand asks the device for permission to post
// local notifications with a badge, a sound and an alert.
func NotificationAuthorizationCommand() DeviceCommand {
	return DeviceCommand{
		Action:  RequestNotificationAuthorization,
		Options: []string{"badge", "sound", "alert"},
	}
}
