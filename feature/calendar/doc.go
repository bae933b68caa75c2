// Package calendar holds the settings shared by the calendar subpackages:
//
//   - codec: MatchRecord <-> Event mapping and identity keys
//   - ics: the local .ics store
//   - google: the Google Calendar remote
//   - handle: resolution and caching of the remote calendar id
package calendar
