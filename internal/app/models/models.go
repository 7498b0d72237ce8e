package models

import "strings"

// MediaType tags a post attachment
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaTypeFromContentType classifies an upload by its MIME type
func MediaTypeFromContentType(contentType string) MediaType {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video") {
		return MediaVideo
	}
	return MediaImage
}

// FeeClass filters events by registration fee
type FeeClass string

const (
	FeeAny  FeeClass = "any"
	FeeFree FeeClass = "free"
	FeePaid FeeClass = "paid"
)

// ParseFeeClass maps a query value to a FeeClass. Unknown values mean any.
func ParseFeeClass(s string) FeeClass {
	switch FeeClass(strings.ToLower(strings.TrimSpace(s))) {
	case FeeFree:
		return FeeFree
	case FeePaid:
		return FeePaid
	default:
		return FeeAny
	}
}

// FollowAction is the requested transition of a follow toggle
type FollowAction string

const (
	ActionFollow   FollowAction = "follow"
	ActionUnfollow FollowAction = "unfollow"
)

// FollowStatus is the resulting state reported back to the caller
type FollowStatus string

const (
	StatusFollowed   FollowStatus = "followed"
	StatusUnfollowed FollowStatus = "unfollowed"
)

// CredentialProviderInstagram is the provider tag stored with Instagram tokens
const CredentialProviderInstagram = "instagram"
