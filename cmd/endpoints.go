package cmd

import (
	authadapter "github.com/bnema/vitals-cli/internal/adapters/auth"
	"github.com/bnema/vitals-cli/internal/domain"
)

// providerDefaults carries the fixed OAuth endpoints and default scopes of
// one vendor. Fitbit and Polar token endpoints insist on HTTP Basic with a
// form body; Oura and Whoop take the client credentials in a JSON body.
type providerDefaults struct {
	authURL  string
	tokenURL string
	style    authadapter.AuthStyle
	usePKCE  bool
	scopes   []string
}

var endpointDefaults = map[domain.ProviderID]providerDefaults{
	domain.ProviderFitbit: {
		authURL:  "https://www.fitbit.com/oauth2/authorize",
		tokenURL: "https://api.fitbit.com/oauth2/token",
		style:    authadapter.AuthStyleBasicForm,
		usePKCE:  true,
		scopes:   []string{"sleep", "heartrate", "activity", "profile"},
	},
	domain.ProviderOura: {
		authURL:  "https://cloud.ouraring.com/oauth/authorize",
		tokenURL: "https://api.ouraring.com/oauth/token",
		style:    authadapter.AuthStyleJSONBody,
		scopes:   []string{"email", "personal", "daily", "heartrate"},
	},
	domain.ProviderWhoop: {
		authURL:  "https://api.prod.whoop.com/oauth/oauth2/auth",
		tokenURL: "https://api.prod.whoop.com/oauth/oauth2/token",
		style:    authadapter.AuthStyleJSONBody,
		scopes:   []string{"read:recovery", "read:sleep", "read:cycles", "read:profile", "offline"},
	},
	domain.ProviderPolar: {
		authURL:  "https://flow.polar.com/oauth2/authorization",
		tokenURL: "https://polarremote.com/v2/oauth2/token",
		style:    authadapter.AuthStyleBasicForm,
		scopes:   []string{"accesslink.read_all"},
	},
}
