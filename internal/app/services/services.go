// Package services holds the business rules of the portal.
//
// AuthService is the credential store: registration, login and the single
// session token per user. EnrollmentService validates and stores enrollment
// records, always scoped to the owning user.
package services
