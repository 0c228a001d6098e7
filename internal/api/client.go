package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/completeditmate/mate/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Mate/1.0"
)

// UserIDFunc supplies the session user id for the x-user-id header.
// It returns "" before the anonymous bootstrap completes; requests are
// still sent (the catalogue endpoints work without identity).
type UserIDFunc func() string

// Client implements domain.CatalogueRepository, domain.LibraryRepository,
// domain.IdentityRepository, and domain.ProfileRepository against the
// Completed It Mate REST API.
type Client struct {
	baseURL    string
	apiKey     string
	userID     UserIDFunc
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client.
func NewClient(baseURL, apiKey string, userID UserIDFunc, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if userID == nil {
		userID = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		userID:  userID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated HTTP request. The returned status
// code lets callers translate 404/409 into their endpoint's sentinel;
// transport failures and 401 are translated here.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, int, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if uid := c.userID(); uid != "" {
		req.Header.Set("x-user-id", uid)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err)
		return nil, 0, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, resp.StatusCode, domain.ErrAuthFailed
	}

	return body, resp.StatusCode, nil
}

// decode unmarshals a response body, logging parse failures.
func (c *Client) decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// === Catalogue ===

// GetGames returns one page of catalogue results for the query.
func (c *Client) GetGames(ctx context.Context, q domain.BrowseQuery) (domain.BrowseResult, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Q != "" {
		query.Set("q", q.Q)
	}
	if q.Platform != "" {
		query.Set("platforms", q.Platform)
	}
	if q.Genre != "" {
		query.Set("genres", q.Genre)
	}
	if q.YearMin > 0 {
		query.Set("yearMin", strconv.Itoa(q.YearMin))
	}
	if q.YearMax > 0 {
		query.Set("yearMax", strconv.Itoa(q.YearMax))
	}
	if q.Sort != "" {
		query.Set("sort", string(q.Sort))
	}

	body, status, err := c.doRequest(ctx, http.MethodGet, "/games", query, nil)
	if err != nil {
		return domain.BrowseResult{}, err
	}
	if status != http.StatusOK {
		c.logger.Error("games request error", "status", status, "body", string(body))
		return domain.BrowseResult{}, fmt.Errorf("unexpected status code: %d", status)
	}

	var paged pagedGamesDTO
	if err := c.decode(body, &paged); err != nil {
		return domain.BrowseResult{}, err
	}

	return domain.BrowseResult{Items: mapGames(paged.Items), Total: paged.Total}, nil
}

// GetGame returns detail for a single game by id or slug.
func (c *Client) GetGame(ctx context.Context, idOrSlug string) (*domain.GameDetail, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "/games/"+url.PathEscape(idOrSlug), nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, domain.ErrGameNotFound
	}
	if status != http.StatusOK {
		c.logger.Error("game detail request error", "status", status, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", status)
	}

	var dto gameDetailDTO
	if err := c.decode(body, &dto); err != nil {
		return nil, err
	}
	return mapGameDetail(dto), nil
}

// GetFacets returns the filter values the catalogue exposes.
func (c *Client) GetFacets(ctx context.Context) (*domain.Facets, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "/games/facets", nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", status)
	}

	var dto facetsDTO
	if err := c.decode(body, &dto); err != nil {
		return nil, err
	}
	return mapFacets(dto), nil
}

// === Library ===

// GetLibrary returns all of the current user's entries.
func (c *Client) GetLibrary(ctx context.Context) ([]domain.LibraryEntry, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "/library", nil, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", status)
	}

	var items []libraryItemDTO
	if err := c.decode(body, &items); err != nil {
		return nil, err
	}

	entries := make([]domain.LibraryEntry, len(items))
	for i, item := range items {
		entries[i] = mapLibraryItem(item)
	}
	return entries, nil
}

// CreateEntry creates a library entry and returns it with the server id.
func (c *Client) CreateEntry(ctx context.Context, gameID string, status domain.Status) (*domain.LibraryEntry, error) {
	payload := map[string]string{"gameId": gameID, "status": string(status)}

	body, code, err := c.doRequest(ctx, http.MethodPost, "/library", nil, payload)
	if err != nil {
		return nil, err
	}
	if code == http.StatusConflict {
		return nil, domain.ErrDuplicateEntry
	}
	if code != http.StatusOK && code != http.StatusCreated {
		c.logger.Error("create entry error", "status", code, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", code)
	}

	var dto createdEntryDTO
	if err := c.decode(body, &dto); err != nil {
		return nil, err
	}

	entry := &domain.LibraryEntry{
		EntryID:   dto.ID,
		GameID:    dto.GameID,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}
	if s, perr := domain.ParseStatus(dto.Status); perr == nil {
		entry.Status = s
	}
	return entry, nil
}

// UpdateEntry changes an existing entry's status.
func (c *Client) UpdateEntry(ctx context.Context, entryID string, status domain.Status) error {
	payload := map[string]string{"status": string(status)}

	body, code, err := c.doRequest(ctx, http.MethodPatch, "/library/"+url.PathEscape(entryID), nil, payload)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return domain.ErrEntryNotFound
	}
	if code != http.StatusOK {
		c.logger.Error("update entry error", "status", code, "body", string(body))
		return fmt.Errorf("unexpected status code: %d", code)
	}
	return nil
}

// DeleteEntry removes a library entry.
func (c *Client) DeleteEntry(ctx context.Context, entryID string) error {
	body, code, err := c.doRequest(ctx, http.MethodDelete, "/library/"+url.PathEscape(entryID), nil, nil)
	if err != nil {
		return err
	}
	if code == http.StatusNotFound {
		return domain.ErrEntryNotFound
	}
	if code != http.StatusOK && code != http.StatusNoContent {
		c.logger.Error("delete entry error", "status", code, "body", string(body))
		return fmt.Errorf("unexpected status code: %d", code)
	}
	return nil
}

// === Identity ===

// CreateAnonymousUser exchanges a device id for a server-issued user id.
func (c *Client) CreateAnonymousUser(ctx context.Context, deviceID string) (string, error) {
	payload := map[string]string{"deviceId": deviceID}

	body, code, err := c.doRequest(ctx, http.MethodPost, "/users/anonymous", nil, payload)
	if err != nil {
		return "", err
	}
	if code != http.StatusOK && code != http.StatusCreated {
		c.logger.Error("anonymous bootstrap error", "status", code, "body", string(body))
		return "", fmt.Errorf("unexpected status code: %d", code)
	}

	var dto anonymousUserDTO
	if err := c.decode(body, &dto); err != nil {
		return "", err
	}
	if dto.UserID == "" {
		return "", fmt.Errorf("no userId in bootstrap response")
	}
	return dto.UserID, nil
}

// === Profile ===

// GetMe returns the current user's profile.
func (c *Client) GetMe(ctx context.Context) (*domain.Profile, error) {
	body, code, err := c.doRequest(ctx, http.MethodGet, "/users/me", nil, nil)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", code)
	}

	var dto profileDTO
	if err := c.decode(body, &dto); err != nil {
		return nil, err
	}
	return mapProfile(dto), nil
}

// UpdateMe sets the current user's display name.
func (c *Client) UpdateMe(ctx context.Context, username string) (*domain.Profile, error) {
	payload := map[string]string{"username": username}

	body, code, err := c.doRequest(ctx, http.MethodPatch, "/users/me", nil, payload)
	if err != nil {
		return nil, err
	}
	if code == http.StatusConflict {
		return nil, domain.ErrUsernameTaken
	}
	if code != http.StatusOK {
		c.logger.Error("update profile error", "status", code, "body", string(body))
		return nil, fmt.Errorf("unexpected status code: %d", code)
	}

	var dto profileDTO
	if err := c.decode(body, &dto); err != nil {
		return nil, err
	}
	return mapProfile(dto), nil
}

// GetCommunityStats returns the community dashboard totals.
func (c *Client) GetCommunityStats(ctx context.Context) (*domain.CommunityStats, error) {
	body, code, err := c.doRequest(ctx, http.MethodGet, "/community/dashboard", nil, nil)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", code)
	}

	var dto communityDashboardDTO
	if err := c.decode(body, &dto); err != nil {
		return nil, err
	}

	stats := &domain.CommunityStats{
		TotalUsers:     dto.TotalUsers,
		TotalEntries:   dto.TotalEntries,
		TotalCompleted: dto.TotalCompleted,
		ByStatus:       make(map[domain.Status]int, len(dto.ByStatus)),
	}
	for k, v := range dto.ByStatus {
		if s, perr := domain.ParseStatus(k); perr == nil {
			stats.ByStatus[s] = v
		}
	}
	for _, u := range dto.RecentUsers {
		stats.RecentUsers = append(stats.RecentUsers, *mapProfile(u))
	}
	return stats, nil
}
