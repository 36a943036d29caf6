package api

import "net/url"

// Login exchanges credentials for a token. The call is exempt from bearer
// attachment so a stale stored credential can never shadow a fresh login.
func (c *Client) Login(username, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp LoginResponse
	if err := c.do(request{
		method: "POST",
		path:   "/auth/login",
		form:   form,
		exempt: true,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the server-side session for the current token.
func (c *Client) Logout() error {
	return c.do(request{method: "POST", path: "/auth/logout"}, nil)
}

// Me resolves the user behind the current token.
func (c *Client) Me() (*User, error) {
	var user User
	if err := c.do(request{method: "GET", path: "/auth/me"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
