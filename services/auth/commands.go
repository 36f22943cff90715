package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopfront/storefront/lib/myerrors"
	"github.com/shopfront/storefront/lib/mylog"
)

func (s *service) login(c context.Context, creds credentials) (User, error) {
	err := s.simulateRoundTrip(c)
	if err != nil {
		return User{}, myerrors.NewInternalError(err)
	}

	if creds.Email == "" || creds.Password == "" {
		return User{}, myerrors.NewInvalidInputErrorf("Email and password required")
	}
	if len(creds.Password) < 6 {
		return User{}, myerrors.NewAuthenticationError(fmt.Errorf("Invalid credentials"))
	}

	user := User{
		ID:    fmt.Sprintf("user_%d", s.nower.Now().UnixMilli()),
		Email: creds.Email,
		Name:  strings.Split(creds.Email, "@")[0],
	}

	err = s.userStore.Put(c, activeUserUID, user)
	if err != nil {
		return User{}, myerrors.NewInternalError(err)
	}

	s.logger.Log(c, user.ID, mylog.SeverityInfo, "User %s logged in", user.Email)

	return user, nil
}

func (s *service) signup(c context.Context, creds credentials) (User, error) {
	err := s.simulateRoundTrip(c)
	if err != nil {
		return User{}, myerrors.NewInternalError(err)
	}

	if creds.Name == "" || creds.Email == "" || creds.Password == "" {
		return User{}, myerrors.NewInvalidInputErrorf("All fields required")
	}
	if len(creds.Password) < 6 {
		return User{}, myerrors.NewInvalidInputErrorf("Password must be at least 6 characters")
	}

	user := User{
		ID:    fmt.Sprintf("user_%d", s.nower.Now().UnixMilli()),
		Email: creds.Email,
		Name:  creds.Name,
	}

	err = s.userStore.Put(c, activeUserUID, user)
	if err != nil {
		return User{}, myerrors.NewInternalError(err)
	}

	s.logger.Log(c, user.ID, mylog.SeverityInfo, "User %s signed up", user.Email)

	return user, nil
}

func (s *service) logout(c context.Context) error {
	s.logger.Log(c, "", mylog.SeverityInfo, "User logged out")

	err := s.userStore.Remove(c, activeUserUID)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

func (s *service) currentUser(c context.Context) (User, error) {
	user, found, err := s.userStore.Get(c, activeUserUID)
	if err != nil {
		return User{}, myerrors.NewInternalError(err)
	}
	if !found || user.ID == "" {
		return User{}, myerrors.NewAuthenticationError(fmt.Errorf("not signed in"))
	}

	return user, nil
}
