package google

import (
	calendar "google.golang.org/api/calendar/v3"
	drive "google.golang.org/api/drive/v3"
)

// RequiredScopes are the OAuth scopes every stored credential must cover:
//   - Google Calendar: read/write
//   - Google Drive: read/write
var RequiredScopes = []string{
	calendar.CalendarScope,
	drive.DriveScope,
}
