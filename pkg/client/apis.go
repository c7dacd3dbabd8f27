package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battmon/battmon/pkg/config"
	"github.com/battmon/battmon/pkg/events"
	"github.com/battmon/battmon/pkg/monitor"
)

func (c *Client) GetStatus() (*monitor.Status, error) {
	ret, err := c.Get("/status")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get monitor status")
	}

	var status monitor.Status
	if err := json.Unmarshal([]byte(ret), &status); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal monitor status")
	}
	return &status, nil
}

func (c *Client) GetCurrentCharge() (int, error) {
	ret, err := c.Get("/current-charge")
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to get current charge")
	}
	currentCharge, err := strconv.Atoi(ret)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to unmarshal current charge")
	}
	return currentCharge, nil
}

func (c *Client) GetCharging() (bool, error) {
	ret, err := c.Get("/charging")
	if err != nil {
		return false, pkgerrors.Wrapf(err, "failed to get charging status")
	}
	return parseBoolResponse(ret)
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}
	return &conf, nil
}

func (c *Client) GetThresholds() (*monitor.Thresholds, error) {
	ret, err := c.Get("/thresholds")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get thresholds")
	}

	var t monitor.Thresholds
	if err := json.Unmarshal([]byte(ret), &t); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal thresholds")
	}
	return &t, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get daemon version")
	}
	return strings.Trim(strings.TrimSpace(ret), `"`), nil
}

func (c *Client) TestAlert() (string, error) {
	return c.Post("/test-alert", "")
}

// Events tails the daemon SSE stream until ctx is canceled. The returned
// channel closes when the stream ends.
func (c *Client) Events(ctx context.Context) (<-chan events.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://unix/events", nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create events request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to connect to event stream")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, pkgerrors.Errorf("event stream returned %d", resp.StatusCode)
	}

	ch := make(chan events.Event, 16)
	go func() {
		defer close(ch)
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logrus.Errorf("failed to close event stream: %v", err)
			}
		}()

		var name string
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				select {
				case ch <- events.Event{Name: name, Data: json.RawMessage(data)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func parseBoolResponse(ret string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(ret))
	if err != nil {
		return false, pkgerrors.Wrapf(err, "failed to parse response %q", ret)
	}
	return b, nil
}
