// Package cli implements portalctl, the operator tool for the portal:
// hashing the admin password and importing listings offline.
package cli
