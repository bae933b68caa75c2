// Package loader mounts the HTTP features of the serve command.
//
// A feature owns a group of routes and can be switched off. serve registers
// the calendar feed first, so /calendar.ics and /sync exist before the
// integrity endpoints, then calls LoadAll once on the fiber app. Disabled
// features are skipped and the first Load error stops the server from
// starting.
package loader
