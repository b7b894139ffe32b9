// Package roster reads team lists from the Jacker registration system used by
// Triple Crown Sports.
//
// The public UAGetTeams feed lists the teams entered in a tournament and
// serves as the allow-list for the filtered pivot. The registrations page
// breaks entries down into confirmed, pending and deleted tables. It is only
// served to an authenticated browser, so callers pass the session cookie
// through as an opaque header value.
package roster
