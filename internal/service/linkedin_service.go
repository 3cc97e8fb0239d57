package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/maheshrc27/linkedin-scheduler/configs"
	"github.com/maheshrc27/linkedin-scheduler/internal/models"
	"github.com/maheshrc27/linkedin-scheduler/internal/transfer"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

const (
	restliProtocolVersion = "2.0.0"
	linkedInVersion       = "202501"
	imageRecipe           = "urn:li:digitalmediaRecipe:feedshare-image"
	uploadMechanismKey    = "com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"

	DefaultPostsCount = 20
	MaxPostsCount     = 50
)

var (
	ErrNotAuthenticated = errors.New("not authenticated with linkedin")
	ErrEmptyContent     = errors.New("post content is required")
	ErrContentTooLong   = fmt.Errorf("post content exceeds %d characters", models.MaxContentLength)
	ErrInvalidImage     = errors.New("invalid image")

	dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

	allowedImageTypes = map[string]struct{}{
		"jpg": {}, "png": {}, "gif": {}, "webp": {},
	}
)

// ScopeError means the member token lacks a permission LinkedIn requires for
// the call.
type ScopeError struct {
	Scope   string
	Message string
}

func (e *ScopeError) Error() string { return e.Message }

// APIError is any other non-2xx LinkedIn answer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("linkedin: status %d: %s", e.StatusCode, e.Message)
}

type LinkedInService interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserInfo(ctx context.Context, accessToken string) (*transfer.LinkedInUserInfo, error)
	Publish(ctx context.Context, accessToken, memberID string, req transfer.PublishRequest) (*transfer.PublishResult, error)
	ListPosts(ctx context.Context, accessToken, memberID string, start, count int) (*transfer.RemotePostsPage, error)
}

type linkedInService struct {
	oauth  *oauth2.Config
	apiURL string
	log    *logrus.Logger
	// httpClient is the base transport for every outbound call, including
	// the token exchange.
	httpClient *http.Client
}

func NewLinkedInService(cfg config.LinkedIn, httpClient *http.Client, log *logrus.Logger) LinkedInService {
	endpoint := linkedin.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &linkedInService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		log:        log,
		httpClient: httpClient,
	}
}

func (s *linkedInService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

func (s *linkedInService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, errors.New("authorization code is empty")
	}
	token, err := s.oauth.Exchange(s.withClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	return token, nil
}

func (s *linkedInService) UserInfo(ctx context.Context, accessToken string) (*transfer.LinkedInUserInfo, error) {
	var info transfer.LinkedInUserInfo
	if _, err := s.do(ctx, accessToken, http.MethodGet, s.apiURL+"/v2/userinfo", nil, nil, &info); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if info.Sub == "" {
		return nil, errors.New("fetch profile: missing member id")
	}
	return &info, nil
}

// Publish creates a public UGC post. A failed first comment is reported in
// the result and does not fail the publish.
func (s *linkedInService) Publish(ctx context.Context, accessToken, memberID string, req transfer.PublishRequest) (*transfer.PublishResult, error) {
	if accessToken == "" || memberID == "" {
		return nil, ErrNotAuthenticated
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(req.Content) > models.MaxContentLength {
		return nil, ErrContentTooLong
	}

	author := "urn:li:person:" + memberID
	share := transfer.UGCShareContent{
		ShareCommentary:    transfer.UGCText{Text: req.Content},
		ShareMediaCategory: "NONE",
	}

	if req.Image != "" {
		image, fileType, err := decodeImage(req.Image)
		if err != nil {
			return nil, err
		}
		asset, err := s.uploadImage(ctx, accessToken, author, image)
		if err != nil {
			return nil, err
		}
		s.log.WithFields(logrus.Fields{"asset": asset, "type": fileType.MIME.Value}).Info("Uploaded LinkedIn image")
		share.ShareMediaCategory = "IMAGE"
		share.Media = []transfer.UGCMedia{{Status: "READY", Media: asset}}
	}

	post := transfer.UGCPost{
		Author:          author,
		LifecycleState:  "PUBLISHED",
		SpecificContent: transfer.UGCSpecific{ShareContent: share},
		Visibility:      map[string]string{"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"},
	}
	headers := map[string]string{"X-Restli-Protocol-Version": restliProtocolVersion}

	var created struct {
		ID string `json:"id"`
	}
	resp, err := s.do(ctx, accessToken, http.MethodPost, s.apiURL+"/v2/ugcPosts", headers, post, &created)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	result := &transfer.PublishResult{Success: true, PostID: resp.Header.Get("x-restli-id")}
	if result.PostID == "" {
		result.PostID = created.ID
	}

	if comment := strings.TrimSpace(req.FirstComment); comment != "" && result.PostID != "" {
		commentID, err := s.comment(ctx, accessToken, author, result.PostID, comment)
		if err != nil {
			s.log.WithError(err).WithField("post_id", result.PostID).Warn("Failed to add first comment")
			result.CommentError = err.Error()
		} else {
			result.CommentID = commentID
		}
	}
	return result, nil
}

func (s *linkedInService) uploadImage(ctx context.Context, accessToken, owner string, image []byte) (string, error) {
	register := transfer.RegisterUploadRequest{
		RegisterUploadRequest: transfer.RegisterUploadBody{
			Recipes: []string{imageRecipe},
			Owner:   owner,
			ServiceRelationships: []transfer.ServiceRelationship{
				{RelationshipType: "OWNER", Identifier: "urn:li:userGeneratedContent"},
			},
		},
	}

	var registered transfer.RegisterUploadResponse
	if _, err := s.do(ctx, accessToken, http.MethodPost, s.apiURL+"/v2/assets?action=registerUpload", nil, register, &registered); err != nil {
		return "", fmt.Errorf("register upload: %w", err)
	}

	mechanism, ok := registered.Value.UploadMechanism[uploadMechanismKey]
	if !ok || mechanism.UploadURL == "" || registered.Value.Asset == "" {
		return "", errors.New("register upload: no upload URL returned")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, mechanism.UploadURL, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	resp, err := s.client(ctx, accessToken).Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("upload image: %w", readAPIError(resp))
	}
	return registered.Value.Asset, nil
}

func (s *linkedInService) comment(ctx context.Context, accessToken, actor, postURN, text string) (string, error) {
	body := transfer.CommentRequest{Actor: actor, Message: transfer.UGCText{Text: text}}
	endpoint := fmt.Sprintf("%s/v2/socialActions/%s/comments", s.apiURL, url.PathEscape(postURN))

	var created struct {
		ID string `json:"id"`
	}
	resp, err := s.do(ctx, accessToken, http.MethodPost, endpoint, nil, body, &created)
	if err != nil {
		return "", err
	}
	if id := resp.Header.Get("x-restli-id"); id != "" {
		return id, nil
	}
	return created.ID, nil
}

func (s *linkedInService) ListPosts(ctx context.Context, accessToken, memberID string, start, count int) (*transfer.RemotePostsPage, error) {
	if accessToken == "" || memberID == "" {
		return nil, ErrNotAuthenticated
	}
	start, count = ClampPaging(start, count)

	query := url.Values{}
	query.Set("q", "author")
	query.Set("author", "urn:li:person:"+memberID)
	query.Set("count", strconv.Itoa(count))
	query.Set("start", strconv.Itoa(start))
	query.Set("sortBy", "LAST_MODIFIED")
	headers := map[string]string{
		"X-Restli-Protocol-Version": restliProtocolVersion,
		"LinkedIn-Version":          linkedInVersion,
	}

	var out transfer.LinkedInPostsResponse
	if _, err := s.do(ctx, accessToken, http.MethodGet, s.apiURL+"/rest/posts?"+query.Encode(), headers, nil, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			return nil, &ScopeError{
				Scope:   "r_member_social",
				Message: "Your LinkedIn app does not have permission to read posts. The r_member_social scope is required.",
			}
		}
		return nil, fmt.Errorf("list posts: %w", err)
	}

	page := &transfer.RemotePostsPage{
		Posts:  make([]transfer.RemotePost, 0, len(out.Elements)),
		Paging: transfer.Paging{Start: start, Count: count, Total: out.Paging.Total},
	}
	for _, el := range out.Elements {
		page.Posts = append(page.Posts, transfer.RemotePost{
			ID:             el.ID,
			Text:           el.Commentary,
			Visibility:     el.Visibility,
			CreatedAt:      el.CreatedAt,
			LastModifiedAt: el.LastModifiedAt,
			LifecycleState: el.LifecycleState,
			HasMedia:       len(el.Content) > 0,
		})
	}
	return page, nil
}

// ClampPaging applies the listing defaults: count 20, at most 50, start 0.
func ClampPaging(start, count int) (int, int) {
	if count <= 0 {
		count = DefaultPostsCount
	}
	if count > MaxPostsCount {
		count = MaxPostsCount
	}
	if start < 0 {
		start = 0
	}
	return start, count
}

func (s *linkedInService) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

func (s *linkedInService) client(ctx context.Context, accessToken string) *http.Client {
	return oauth2.NewClient(s.withClient(ctx), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
}

// do sends a JSON request with the member's bearer token. out may be nil.
func (s *linkedInService) do(ctx context.Context, accessToken, method, endpoint string, headers map[string]string, body, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client(ctx, accessToken).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp, readAPIError(resp)
	}
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp, err
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return resp, fmt.Errorf("decode response: %w", err)
			}
		}
	}
	return resp, nil
}

func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var body transfer.LinkedInErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
}

// decodeImage accepts a data URI or bare base64 and only lets image types
// through.
func decodeImage(encoded string) ([]byte, types.Type, error) {
	encoded = dataURIPrefix.ReplaceAllString(strings.TrimSpace(encoded), "")
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(image) == 0 {
		return nil, types.Unknown, fmt.Errorf("%w: not valid base64", ErrInvalidImage)
	}

	fileType, err := filetype.Match(image)
	if err != nil || fileType == types.Unknown {
		return nil, types.Unknown, fmt.Errorf("%w: unrecognised file type", ErrInvalidImage)
	}
	if _, ok := allowedImageTypes[fileType.Extension]; !ok {
		return nil, types.Unknown, fmt.Errorf("%w: file type %s is not allowed", ErrInvalidImage, fileType.Extension)
	}
	return image, fileType, nil
}
