package cvmatch

import (
	"fmt"
	"net/http"
)

const apiAuthPath = "/api/auth"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Registration is the payload of a new account request. Optional fields
// are pointers and serialize as null when absent.
type Registration struct {
	Email         string  `json:"email"`
	MotDePasse    string  `json:"mot_de_passe"`
	Nom           string  `json:"nom"`
	Prenom        string  `json:"prenom"`
	Telephone     *string `json:"telephone"`
	VillePreferee *string `json:"ville_preferee"`
}

// Login exchanges credentials for a bearer token. The token is also
// installed on the client so follow-up calls are authenticated.
func (c *Client) Login(email, password string) (string, error) {
	body := map[string]string{
		"email":        email,
		"mot_de_passe": password,
	}

	var resp tokenResponse
	if err := c.postJSON(apiAuthPath+"/login", body, http.StatusOK, &resp); err != nil {
		return "", err
	}

	if resp.AccessToken == "" {
		return "", fmt.Errorf("login response contains no access token")
	}

	c.token = resp.AccessToken

	return resp.AccessToken, nil
}

// Register creates a new account. The caller still needs to Login
// afterwards to obtain a token.
func (c *Client) Register(r *Registration) error {
	return c.postJSON(apiAuthPath+"/register", r, http.StatusCreated, nil)
}

// Me returns the profile of the authenticated user.
func (c *Client) Me() (*User, error) {
	var user *User
	if err := c.getJSON(apiAuthPath+"/me", nil, &user); err != nil {
		return nil, err
	}

	return user, nil
}
