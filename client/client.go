// Package client is the Go client for the rendezvous coordinator. It wraps
// the HTTP API, keeps a session alive with a heartbeat loop, subscribes to
// the event socket, and drives a WebRTC handshake over the signaling
// endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Ogyeet10/chat-lol/internal/models"
)

// HeartbeatPeriod is half the server's default staleness window.
const HeartbeatPeriod = 30 * time.Second

// APIError is a non-2xx response decoded from the server envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client talks to one coordinator instance on behalf of one account.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Token returns the bearer token acquired by Signup or Login.
func (c *Client) Token() string { return c.token }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Error}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

type authData struct {
	Account models.AccountResponse `json:"account"`
	Token   string                 `json:"token"`
}

// Signup creates an account and stores the returned token on the client.
func (c *Client) Signup(ctx context.Context, username, password string) (models.AccountResponse, error) {
	var data authData
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username": username,
		"password": password,
	}, &data)
	if err != nil {
		return models.AccountResponse{}, err
	}
	c.token = data.Token
	return data.Account, nil
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (models.AccountResponse, error) {
	var data authData
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &data)
	if err != nil {
		return models.AccountResponse{}, err
	}
	c.token = data.Token
	return data.Account, nil
}

// RegisterSession registers a fresh session and returns its handle.
func (c *Client) RegisterSession(ctx context.Context) (models.Session, error) {
	var sess models.Session
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions/", nil, &sess)
	return sess, err
}

// Heartbeat refreshes a session's liveness once.
func (c *Client) Heartbeat(ctx context.Context, handle string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/sessions/"+handle+"/heartbeat", nil, nil)
}

// RunHeartbeat refreshes the session every HeartbeatPeriod until the context
// is cancelled. Transient failures are retried on the next tick; an
// authorization failure stops the loop, since retrying cannot fix it.
func (c *Client) RunHeartbeat(ctx context.Context, handle string) error {
	ticker := time.NewTicker(HeartbeatPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := c.Heartbeat(ctx, handle)
			var apiErr *APIError
			if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusNotFound) {
				return err
			}
		}
	}
}

// DeactivateSession retires a session. Safe to call more than once.
func (c *Client) DeactivateSession(ctx context.Context, handle string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/sessions/"+handle, nil, nil)
}

// ListLiveSessions returns the caller's own live sessions.
func (c *Client) ListLiveSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	err := c.do(ctx, http.MethodGet, "/api/v1/sessions/", nil, &sessions)
	return sessions, err
}

// ListUserSessions returns another account's live sessions.
func (c *Client) ListUserSessions(ctx context.Context, username string) ([]models.Session, error) {
	var sessions []models.Session
	err := c.do(ctx, http.MethodGet, "/api/v1/users/"+url.PathEscape(username)+"/sessions", nil, &sessions)
	return sessions, err
}

// SendFriendRequest asks the named account to become a friend.
func (c *Client) SendFriendRequest(ctx context.Context, toUsername string) (models.FriendRequest, error) {
	var req models.FriendRequest
	err := c.do(ctx, http.MethodPost, "/api/v1/friends/requests", map[string]string{
		"toUsername": toUsername,
	}, &req)
	return req, err
}

// RespondFriendRequest accepts or rejects a pending request.
func (c *Client) RespondFriendRequest(ctx context.Context, requestID string, accept bool) (models.FriendRequest, error) {
	decision := models.FriendRequestRejected
	if accept {
		decision = models.FriendRequestAccepted
	}
	var req models.FriendRequest
	err := c.do(ctx, http.MethodPost, "/api/v1/friends/requests/"+requestID+"/respond", map[string]string{
		"decision": decision,
	}, &req)
	return req, err
}

// ListFriendRequests returns pending requests involving the caller.
func (c *Client) ListFriendRequests(ctx context.Context) ([]models.FriendRequestSummary, error) {
	var reqs []models.FriendRequestSummary
	err := c.do(ctx, http.MethodGet, "/api/v1/friends/requests", nil, &reqs)
	return reqs, err
}

// ListFriends returns the caller's friends.
func (c *Client) ListFriends(ctx context.Context) ([]models.AccountResponse, error) {
	var friends []models.AccountResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/friends/", nil, &friends)
	return friends, err
}

// Unfriend removes the friendship with the named account.
func (c *Client) Unfriend(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/friends/"+url.PathEscape(username), nil, nil)
}

// OpenConnection opens a signaling request carrying the offer.
func (c *Client) OpenConnection(ctx context.Context, fromSession, toSession, offer string) (models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := c.do(ctx, http.MethodPost, "/api/v1/connect/", map[string]string{
		"fromSession": fromSession,
		"toSession":   toSession,
		"offer":       offer,
	}, &req)
	return req, err
}

// ReplyConnection attaches the answer payload.
func (c *Client) ReplyConnection(ctx context.Context, requestID, answer string) (models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := c.do(ctx, http.MethodPost, "/api/v1/connect/"+requestID+"/reply", map[string]string{
		"answer": answer,
	}, &req)
	return req, err
}

// CompleteConnection reports the direct channel open.
func (c *Client) CompleteConnection(ctx context.Context, requestID string) (models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := c.do(ctx, http.MethodPost, "/api/v1/connect/"+requestID+"/complete", nil, &req)
	return req, err
}

// IncomingConnections returns requests addressed to the session.
func (c *Client) IncomingConnections(ctx context.Context, sessionHandle string) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := c.do(ctx, http.MethodGet, "/api/v1/connect/incoming?session="+url.QueryEscape(sessionHandle), nil, &reqs)
	return reqs, err
}

// ConnectionStatus returns a request the caller participates in.
func (c *Client) ConnectionStatus(ctx context.Context, requestID string) (models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := c.do(ctx, http.MethodGet, "/api/v1/connect/"+requestID, nil, &req)
	return req, err
}

// SendPing opens a liveness probe toward the target session.
func (c *Client) SendPing(ctx context.Context, fromSession, toSession string) (models.LivenessPing, error) {
	var ping models.LivenessPing
	err := c.do(ctx, http.MethodPost, "/api/v1/liveness/", map[string]string{
		"fromSession": fromSession,
		"toSession":   toSession,
	}, &ping)
	return ping, err
}

// RespondPing acknowledges a probe aimed at one of the caller's sessions.
func (c *Client) RespondPing(ctx context.Context, pingID string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/liveness/"+pingID+"/respond", nil, nil)
}

type pingStatus struct {
	Status string `json:"status"`
}

// PollPing reads a probe's status once. ok is false when the probe is gone.
func (c *Client) PollPing(ctx context.Context, pingID string) (string, bool, error) {
	var data pingStatus
	err := c.do(ctx, http.MethodGet, "/api/v1/liveness/"+pingID, nil, &data)
	if err != nil {
		return "", false, err
	}
	if data.Status == "" {
		return "", false, nil
	}
	return data.Status, true, nil
}

// ProbeLiveness sends a probe and polls until it is answered or the timeout
// elapses. A dead probe (consumed or expired) also counts as a timeout.
func (c *Client) ProbeLiveness(ctx context.Context, fromSession, toSession string, timeout time.Duration) (bool, error) {
	ping, err := c.SendPing(ctx, fromSession, toSession)
	if err != nil {
		return false, err
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			status, ok, err := c.PollPing(ctx, ping.ID)
			if err != nil {
				return false, err
			}
			if ok && status == models.PingResponded {
				return true, nil
			}
			if !ok || time.Now().After(deadline) {
				return false, nil
			}
		}
	}
}
