package common

const (
	// SessionCookieName identifies the browser session that owns preferences and views.
	SessionCookieName = "traderflow_session"

	// PreferenceKeyDarkMode is the single persisted display preference.
	PreferenceKeyDarkMode = "darkMode"

	// RedisKeyPreference is formatted with the session id and preference key.
	RedisKeyPreference = "preference:%s:%s"

	// ContextKeySession and ContextKeyDarkMode are echo.Context keys set by the session middleware.
	ContextKeySession  = "session_id"
	ContextKeyDarkMode = "dark_mode"

	DateLayout = "2006-01-02"
)
