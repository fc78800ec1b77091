package slack

import (
	"encoding/json"
	"io/ioutil"

	"github.com/brigadecore/brigade-foundations/file"
	"github.com/pkg/errors"
)

// App encapsulates the details of a Slack App whose requests are signed with
// its own signing secret.
type App struct {
	// AppID specifies the ID of the Slack App.
	AppID string `json:"appID"`
	// AppSigningSecret is the secret used to sign and verify requests.
	AppSigningSecret string `json:"appSigningSecret"`
}

// LoadApps reads a JSON array of Apps from the given path and indexes them by
// App ID.
func LoadApps(path string) (map[string]App, error) {
	exists, err := file.Exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.Errorf("file %s does not exist", path)
	}
	appsBytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	apps := []App{}
	if err := json.Unmarshal(appsBytes, &apps); err != nil {
		return nil, errors.Wrapf(err, "error parsing %s", path)
	}
	indexed := make(map[string]App, len(apps))
	for _, app := range apps {
		indexed[app.AppID] = app
	}
	return indexed, nil
}
