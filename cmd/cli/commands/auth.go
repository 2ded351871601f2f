package commands

import (
	"context"
	"errors"

	"github.com/jakechorley/church-check-in/pkg/clients/checkinsweb"
	"github.com/jakechorley/church-check-in/pkg/core/services"
)

// ErrNoWebLogin is returned when check-ins need submitting but no web login is configured
var ErrNoWebLogin = errors.New("PCO_EMAIL and PCO_PASSWORD must be set to submit check-ins")

// WebLogin opens check-ins web sessions for submitting records
type WebLogin struct {
	Client *checkinsweb.Client
}

func (w WebLogin) Login(ctx context.Context) (services.CheckInSubmitter, error) {
	if w.Client == nil {
		return nil, ErrNoWebLogin
	}

	session, err := w.Client.Login(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}
