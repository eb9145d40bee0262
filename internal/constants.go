package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "wl_access_token"
	COOKIE_REDIRECT_NAME     = "wl_redirect_to"
)
