package constants

// Centralized constants for env keys, cookies, routes and API messages.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "LORESHIFTER_CONFIG"
	EnvDBPath              = "LORESHIFTER_DB"

	// Session / Cookie names
	CookieSessionName = "ls_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
)

// Routes used by the backend router
const (
	RouteAPIPrefix = "/api/v0"

	RouteVersion = "/version"

	RoutePlay          = "/play"
	RoutePlaySession   = "/play/:sessionRef"
	RoutePlayJoin      = "/play/:sessionRef/players"
	RoutePlaySetup     = "/play/:sessionRef/players/:playerID/setup"
	RoutePlayReady     = "/play/:sessionRef/players/:playerID/ready"
	RoutePlayActions   = "/play/:sessionRef/actions"
	RoutePlayQuestions = "/play/:sessionRef/questions"
	RoutePlayChat      = "/play/:sessionRef/chat"

	RouteWorlds    = "/world"
	RouteWorldByID = "/world/:worldID"
	RouteWorldCopy = "/world/:worldID/copy"

	RouteUsers    = "/user"
	RouteUserByID = "/user/:userID"

	RouteGames     = "/game"
	RouteGameByRef = "/game/:gameRef"

	RouteAuthGoogleCallback = "/auth/google/callback"
	RouteLogout             = "/logout"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrModeRequired     = "Mode is required"
	ErrPlayerNameNeeded = "Player name is required"
	ErrContentRequired  = "Content cannot be empty"

	ErrSessionNotFound  = "Session not found"
	ErrPlayerNotFound   = "Player not found in session"
	ErrUnknownMode      = "Unknown game mode"
	ErrFailedCreateGame = "Failed to create session"

	ErrWorldNotFound     = "World not found"
	ErrFailedFetchWorlds = "Failed to fetch worlds"
	ErrFailedCreateWorld = "Failed to create world"
	ErrFailedUpdateWorld = "Failed to update world"
	ErrFailedDeleteWorld = "Failed to delete world"
	ErrWorldNameRequired = "World name is required"

	ErrUserNotFound     = "User not found"
	ErrFailedFetchUser  = "Failed to fetch user"
	ErrFailedUpdateUser = "Failed to update user"

	ErrGameRecordNotFound  = "Game not found"
	ErrFailedFetchGames    = "Failed to fetch games"
	ErrFailedCreateGameRec = "Failed to create game"

	ErrMissingGoogleEnv       = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session token"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldSessionID = "session_id"
	LogFieldJoinCode  = "join_code"
	LogFieldModeID    = "mode_id"
	LogFieldPlayerID  = "player_id"
	LogFieldTurn      = "turn"
	LogFieldOutcome   = "outcome"
	LogFieldWorldID   = "world_id"
	LogFieldAddr      = "addr"
)
