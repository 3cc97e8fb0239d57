package transfer

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// StateClaims is the signed OAuth state. Nonce must match the oauthState
// held in the pending session cookie.
type StateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

type LinkedInUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type LinkedInErrorResponse struct {
	Message          string `json:"message"`
	Status           int    `json:"status"`
	ServiceErrorCode int    `json:"serviceErrorCode"`
}

type RegisterUploadRequest struct {
	RegisterUploadRequest RegisterUploadBody `json:"registerUploadRequest"`
}

type RegisterUploadBody struct {
	Recipes              []string              `json:"recipes"`
	Owner                string                `json:"owner"`
	ServiceRelationships []ServiceRelationship `json:"serviceRelationships"`
}

type ServiceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type RegisterUploadResponse struct {
	Value struct {
		Asset           string `json:"asset"`
		UploadMechanism map[string]struct {
			UploadURL string            `json:"uploadUrl"`
			Headers   map[string]string `json:"headers"`
		} `json:"uploadMechanism"`
	} `json:"value"`
}

type UGCPost struct {
	Author          string            `json:"author"`
	LifecycleState  string            `json:"lifecycleState"`
	SpecificContent UGCSpecific       `json:"specificContent"`
	Visibility      map[string]string `json:"visibility"`
}

type UGCSpecific struct {
	ShareContent UGCShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type UGCShareContent struct {
	ShareCommentary    UGCText    `json:"shareCommentary"`
	ShareMediaCategory string     `json:"shareMediaCategory"`
	Media              []UGCMedia `json:"media,omitempty"`
}

type UGCText struct {
	Text string `json:"text"`
}

type UGCMedia struct {
	Status string `json:"status"`
	Media  string `json:"media"`
}

type CommentRequest struct {
	Actor   string  `json:"actor"`
	Message UGCText `json:"message"`
}

type LinkedInPostsResponse struct {
	Elements []LinkedInPostElement `json:"elements"`
	Paging   struct {
		Total *int `json:"total"`
	} `json:"paging"`
}

type LinkedInPostElement struct {
	ID             string                     `json:"id"`
	Commentary     string                     `json:"commentary"`
	Visibility     string                     `json:"visibility"`
	CreatedAt      int64                      `json:"createdAt"`
	LastModifiedAt int64                      `json:"lastModifiedAt"`
	LifecycleState string                     `json:"lifecycleState"`
	Content        map[string]json.RawMessage `json:"content"`
}

// RemotePost is the normalized shape returned to the composer.
type RemotePost struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	Visibility     string `json:"visibility"`
	CreatedAt      int64  `json:"createdAt"`
	LastModifiedAt int64  `json:"lastModifiedAt"`
	LifecycleState string `json:"lifecycleState"`
	HasMedia       bool   `json:"hasMedia"`
}

type Paging struct {
	Start int  `json:"start"`
	Count int  `json:"count"`
	Total *int `json:"total,omitempty"`
}

type RemotePostsPage struct {
	Posts  []RemotePost `json:"posts"`
	Paging Paging       `json:"paging"`
}

type PublishRequest struct {
	Content      string `json:"content"`
	Image        string `json:"image"`
	FirstComment string `json:"firstComment"`
}

type PublishResult struct {
	Success      bool   `json:"success"`
	PostID       string `json:"postId"`
	CommentID    string `json:"commentId,omitempty"`
	CommentError string `json:"commentError,omitempty"`
}
