/*
Copyright Gen Digital Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logfields

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log Fields.
const (
	FieldCredentialID    = "credentialID"
	FieldCredentialKind  = "credentialKind"
	FieldDID             = "did"
	FieldFileID          = "fileID"
	FieldFileName        = "fileName"
	FieldFolderID        = "folderID"
	FieldFolderName      = "folderName"
	FieldHolder          = "holder"
	FieldLedgerSize      = "ledgerSize"
	FieldParentFolderID  = "parentFolderID"
	FieldPresentationID  = "presentationID"
	FieldRecommendations = "recommendations"
	FieldRetries         = "retries"
	FieldUserLogLevel    = "userLogLevel"
)

// WithCredentialID sets the CredentialID field.
func WithCredentialID(credentialID string) zap.Field {
	return zap.String(FieldCredentialID, credentialID)
}

// WithCredentialKind sets the CredentialKind field.
func WithCredentialKind(kind string) zap.Field {
	return zap.String(FieldCredentialKind, kind)
}

// WithDID sets the DID field.
func WithDID(did string) zap.Field {
	return zap.String(FieldDID, did)
}

// WithFileID sets the FileID field.
func WithFileID(fileID string) zap.Field {
	return zap.String(FieldFileID, fileID)
}

// WithFileName sets the FileName field.
func WithFileName(fileName string) zap.Field {
	return zap.String(FieldFileName, fileName)
}

// WithFolderID sets the FolderID field.
func WithFolderID(folderID string) zap.Field {
	return zap.String(FieldFolderID, folderID)
}

// WithFolderName sets the FolderName field.
func WithFolderName(folderName string) zap.Field {
	return zap.String(FieldFolderName, folderName)
}

// WithHolder sets the Holder field.
func WithHolder(holder string) zap.Field {
	return zap.String(FieldHolder, holder)
}

// WithLedgerSize sets the LedgerSize field.
func WithLedgerSize(size int) zap.Field {
	return zap.Int(FieldLedgerSize, size)
}

// WithParentFolderID sets the ParentFolderID field.
func WithParentFolderID(parentFolderID string) zap.Field {
	return zap.String(FieldParentFolderID, parentFolderID)
}

// WithPresentationID sets the PresentationID field.
func WithPresentationID(presentationID string) zap.Field {
	return zap.String(FieldPresentationID, presentationID)
}

// WithRecommendations sets the Recommendations field.
func WithRecommendations(count int) zap.Field {
	return zap.Int(FieldRecommendations, count)
}

// WithRetries sets the Retries field.
func WithRetries(retries int) zap.Field {
	return zap.Int(FieldRetries, retries)
}

// WithUserLogLevel sets the UserLogLevel field.
func WithUserLogLevel(logLevel string) zap.Field {
	return zap.String(FieldUserLogLevel, logLevel)
}

// ObjectMarshaller uses reflection to marshal an object's fields.
type ObjectMarshaller struct {
	key string
	obj interface{}
}

// NewObjectMarshaller returns a new ObjectMarshaller.
func NewObjectMarshaller(key string, obj interface{}) *ObjectMarshaller {
	return &ObjectMarshaller{key: key, obj: obj}
}

// MarshalLogObject marshals the object's fields.
func (m *ObjectMarshaller) MarshalLogObject(e zapcore.ObjectEncoder) error {
	return e.AddReflected(m.key, m.obj)
}
