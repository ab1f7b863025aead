// Package campaign implements campaign lifecycle management.
//
// The service layer contains all business logic for creating, previewing, and
// sending WhatsApp campaigns. It depends on the interfaces defined in this
// package and should never import from api/ or repository/postgres/ directly.
package campaign
