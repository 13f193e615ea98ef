package kintone

import (
	"fmt"

	"github.com/praetorian-inc/janus-framework/pkg/chain"
	"github.com/praetorian-inc/janus-framework/pkg/chain/cfg"

	"github.com/kintrospect/kintrospect/pkg/snapshot"
)

// AppConfigFetchLink pulls the full access-control configuration of one app:
// app ACL, record ACL, field ACL, form fields, process management, settings,
// and views. Input is the app ID.
type AppConfigFetchLink struct {
	*APIBaseLink
}

func NewAppConfigFetchLink(configs ...cfg.Config) chain.Link {
	l := &AppConfigFetchLink{}
	l.APIBaseLink = NewAPIBaseLink(l, configs...)
	return l
}

func (l *AppConfigFetchLink) Process(input any) error {
	appID, ok := input.(string)
	if !ok || appID == "" {
		return fmt.Errorf("expected an app ID, got %T", input)
	}
	ctx := l.Context()

	app := &snapshot.App{AppID: appID}

	settings, err := l.Client.AppSettings(ctx, appID)
	if err != nil {
		return fmt.Errorf("fetching settings of app %s: %w", appID, err)
	}
	app.Settings = settings
	app.Name = settings.Name

	if app.AppACL, err = l.Client.AppACL(ctx, appID); err != nil {
		return fmt.Errorf("fetching app ACL of app %s: %w", appID, err)
	}
	if app.RecordACL, err = l.Client.RecordACL(ctx, appID); err != nil {
		return fmt.Errorf("fetching record ACL of app %s: %w", appID, err)
	}
	if app.FieldACL, err = l.Client.FieldACL(ctx, appID); err != nil {
		return fmt.Errorf("fetching field ACL of app %s: %w", appID, err)
	}
	if app.FormFields, err = l.Client.FormFields(ctx, appID); err != nil {
		return fmt.Errorf("fetching form fields of app %s: %w", appID, err)
	}

	// Workflow and view settings round out the snapshot but are not needed
	// for the permission audit, so a failure here only warns.
	if app.Process, err = l.Client.ProcessManagement(ctx, appID); err != nil {
		l.Logger.Warn("skipping process management", "app", appID, "error", err)
	}
	if app.Views, err = l.Client.AppViews(ctx, appID); err != nil {
		l.Logger.Warn("skipping views", "app", appID, "error", err)
	}

	l.Logger.Info("fetched app configuration", "app", appID, "name", app.Name)
	l.Send(app)
	return nil
}
