/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vault exposes the credential lifecycle over HTTP. The controller is
// a thin adapter; all domain behavior lives in the services it delegates to.
package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencreds/credvault/pkg/doc/vc/builder"
	"github.com/opencreds/credvault/pkg/doc/vc/crypto"
	"github.com/opencreds/credvault/pkg/restapi/resterr"
	"github.com/opencreds/credvault/pkg/service/issuecredential"
	"github.com/opencreds/credvault/pkg/service/keystore"
	"github.com/opencreds/credvault/pkg/service/presentation"
	"github.com/opencreds/credvault/pkg/service/relations"
	"github.com/opencreds/credvault/pkg/storage/blobstore"
)

const controllerComponent = "vault.Controller"

type router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

type PresentationMetrics interface {
	PresentationCreated()
}

type noopMetrics struct{}

func (noopMetrics) PresentationCreated() {}

// Config holds the collaborators of the Controller.
type Config struct {
	IssueCredentialService *issuecredential.Service
	PresentationService    *presentation.Service
	RelationsService       *relations.Service
	Store                  blobstore.Store
	Metrics                PresentationMetrics
}

// Controller handles the /v1 vault endpoints.
type Controller struct {
	issueCredential *issuecredential.Service
	presentation    *presentation.Service
	relations       *relations.Service
	store           blobstore.Store
	metrics         PresentationMetrics
}

// NewController creates the controller and registers its routes.
func NewController(router router, cfg Config) *Controller {
	c := &Controller{
		issueCredential: cfg.IssueCredentialService,
		presentation:    cfg.PresentationService,
		relations:       cfg.RelationsService,
		store:           cfg.Store,
		metrics:         cfg.Metrics,
	}

	if c.metrics == nil {
		c.metrics = noopMetrics{}
	}

	router.POST("/v1/credentials", c.IssueCredential)
	router.GET("/v1/credentials/:fileID", c.GetCredential)
	router.POST("/v1/credentials/:fileID/recommendations", c.IssueRecommendation)
	router.GET("/v1/credentials/:fileID/relations", c.GetRelations)
	router.POST("/v1/presentations", c.CreatePresentation)
	router.POST("/v1/media", c.SaveMedia)
	router.GET("/v1/files", c.ListFileIDs)
	router.DELETE("/v1/files/:fileID", c.DeleteFile)

	return c
}

// IssueCredential handles POST /v1/credentials.
func (c *Controller) IssueCredential(ctx echo.Context) error {
	var req IssueCredentialRequest
	if err := ctx.Bind(&req); err != nil {
		return resterr.NewValidationError(resterr.BadRequest, "requestBody", err)
	}

	form, err := req.Form.toForm(builder.Kind(req.Kind))
	if err != nil {
		return resterr.NewValidationError(resterr.InvalidValue, "kind", err)
	}

	issued, err := c.issueCredential.IssueCredential(ctx.Request().Context(), form)
	if err != nil {
		return mapServiceError("IssueCredential", err)
	}

	return respondIssued(ctx, issued)
}

// GetCredential handles GET /v1/credentials/{fileID}. It serves the stored
// credential document as-is.
func (c *Controller) GetCredential(ctx echo.Context) error {
	fileID := ctx.Param("fileID")

	content, err := c.store.RetrieveFile(ctx.Request().Context(), fileID)
	if err != nil {
		return mapServiceError("GetCredential", err)
	}

	return ctx.Blob(http.StatusOK, content.MimeType, content.Data)
}

// IssueRecommendation handles POST /v1/credentials/{fileID}/recommendations.
func (c *Controller) IssueRecommendation(ctx echo.Context) error {
	var req IssueRecommendationRequest
	if err := ctx.Bind(&req); err != nil {
		return resterr.NewValidationError(resterr.BadRequest, "requestBody", err)
	}

	issued, err := c.issueCredential.IssueRecommendation(ctx.Request().Context(), ctx.Param("fileID"),
		builder.RecommendationForm{
			FullName:           req.FullName,
			ExpirationDate:     req.ExpirationDate,
			RecommendationText: req.RecommendationText,
			Qualifications:     req.Qualifications,
		})
	if err != nil {
		return mapServiceError("IssueRecommendation", err)
	}

	return respondIssued(ctx, issued)
}

// GetRelations handles GET /v1/credentials/{fileID}/relations.
func (c *Controller) GetRelations(ctx echo.Context) error {
	record, err := c.relations.GetRecordByCredentialFile(ctx.Request().Context(), ctx.Param("fileID"))
	if err != nil {
		return mapServiceError("GetRelations", err)
	}

	return ctx.JSON(http.StatusOK, record)
}

// CreatePresentation handles POST /v1/presentations.
func (c *Controller) CreatePresentation(ctx echo.Context) error {
	var req CreatePresentationRequest
	if err := ctx.Bind(&req); err != nil {
		return resterr.NewValidationError(resterr.BadRequest, "requestBody", err)
	}

	if len(req.Credentials) == 0 {
		return resterr.NewValidationError(resterr.InvalidValue, "credentials",
			fmt.Errorf("no credentials to present"))
	}

	vcsBytes := make([][]byte, len(req.Credentials))
	for i, raw := range req.Credentials {
		vcsBytes[i] = raw
	}

	vp, keyPair, err := c.presentation.CreatePresentation(ctx.Request().Context(), vcsBytes)
	if err != nil {
		return mapServiceError("CreatePresentation", err)
	}

	var signOpts []crypto.SigningOpts
	if req.Challenge != "" {
		signOpts = append(signOpts, crypto.WithChallenge(req.Challenge))
	}

	if req.Domain != "" {
		signOpts = append(signOpts, crypto.WithDomain(req.Domain))
	}

	signed, err := c.presentation.SignPresentation(vp, keyPair, signOpts...)
	if err != nil {
		return mapServiceError("CreatePresentation", err)
	}

	body, err := signed.MarshalJSON()
	if err != nil {
		return resterr.NewSystemError(controllerComponent, "CreatePresentation", err)
	}

	c.metrics.PresentationCreated()

	return ctx.JSON(http.StatusCreated, &CreatePresentationResponse{Presentation: body})
}

// SaveMedia handles POST /v1/media.
func (c *Controller) SaveMedia(ctx echo.Context) error {
	var req SaveMediaRequest
	if err := ctx.Bind(&req); err != nil {
		return resterr.NewValidationError(resterr.BadRequest, "requestBody", err)
	}

	if req.FileName == "" {
		return resterr.NewValidationError(resterr.InvalidValue, "fileName",
			fmt.Errorf("fileName is required"))
	}

	file, err := c.issueCredential.SaveMedia(ctx.Request().Context(), req.FileName, req.MimeType, req.Data)
	if err != nil {
		return mapServiceError("SaveMedia", err)
	}

	return ctx.JSON(http.StatusCreated, &SaveMediaResponse{FileID: file.ID})
}

// ListFileIDs handles GET /v1/files. It serves the session file-id ledger.
func (c *Controller) ListFileIDs(ctx echo.Context) error {
	ids, err := c.relations.FileIDs(ctx.Request().Context())
	if err != nil {
		return mapServiceError("ListFileIDs", err)
	}

	if ids == nil {
		ids = []string{}
	}

	return ctx.JSON(http.StatusOK, &ListFileIDsResponse{FileIDs: ids})
}

// DeleteFile handles DELETE /v1/files/{fileID}. Removal is a storage
// passthrough; relations records referencing the file are not rewritten.
func (c *Controller) DeleteFile(ctx echo.Context) error {
	if err := c.store.DeleteFile(ctx.Request().Context(), ctx.Param("fileID")); err != nil {
		return mapServiceError("DeleteFile", err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func respondIssued(ctx echo.Context, issued *issuecredential.IssuedCredential) error {
	body, err := issued.Credential.MarshalJSON()
	if err != nil {
		return resterr.NewSystemError(controllerComponent, "IssueCredential", err)
	}

	return ctx.JSON(http.StatusCreated, &IssuedCredentialResponse{
		Credential:      body,
		KeyID:           issued.KeyID,
		FolderID:        issued.FolderID,
		FileID:          issued.FileID,
		RelationsFileID: issued.RelationsFileID,
	})
}

// mapServiceError translates domain sentinels into the REST error envelope.
func mapServiceError(operation string, err error) error {
	switch {
	case errors.Is(err, builder.ErrValidation):
		return resterr.NewValidationError(resterr.InvalidValue, "form", err)
	case errors.Is(err, crypto.ErrVerificationFailed):
		return resterr.NewCustomError(resterr.VerificationFailed, err)
	case errors.Is(err, blobstore.ErrDataNotFound), errors.Is(err, keystore.ErrKeyNotFound):
		return resterr.NewCustomError(resterr.DoesntExist, err)
	case errors.Is(err, blobstore.ErrRevisionMismatch):
		return resterr.NewCustomError(resterr.ConditionNotMet, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return resterr.NewSystemError(controllerComponent, operation, err)
	}
}
