package model

// Scope identifies who a request is acting for. It is threaded through every
// usecase call so handlers and logs can attribute work to a session.
type Scope struct {
	SessionID string // Logical conversation/session identifier
	UserID    string // Caller identity, opaque to the core
}

// Environment is the deployment environment name.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)
