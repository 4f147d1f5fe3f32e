// Package keamigrate holds the version of the tool migrating the ISC DHCP
// host reservations to the Kea host database.
package keamigrate

// Version of the kea-host-migrate tool.
const Version = "1.0.0"
