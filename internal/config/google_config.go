package config

const (
	googleClientIDVar     = "QUESTPATH_GOOGLE_CLIENT_ID"
	googleClientSecretVar = "QUESTPATH_GOOGLE_CLIENT_SECRET"
	googleCallbackAddrVar = "QUESTPATH_GOOGLE_CALLBACK_ADDR"
)

type Google struct {
	*layers
}

var _ GoogleConfig = Google{}

func (g Google) GetGoogleClientID() string {
	return g.str(googleClientIDVar, func(v *FileValues) string { return v.Google.ClientID }, "")
}

func (g Google) GetGoogleClientSecret() string {
	return g.str(googleClientSecretVar, func(v *FileValues) string { return v.Google.ClientSecret }, "")
}

// GetGoogleCallbackAddr returns the loopback address the sign-in callback listens on.
func (g Google) GetGoogleCallbackAddr() string {
	return g.str(googleCallbackAddrVar, func(v *FileValues) string { return v.Google.CallbackAddr }, "127.0.0.1:8765")
}
