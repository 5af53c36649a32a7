// Package bootstrap provides the built-in schema document the editor starts
// from before anything is imported.
package bootstrap

import (
	"fmt"

	"github.com/schemastudio/backend/internal/domain/schema"
)

// DefaultDocument returns a fresh copy of the built-in starter document:
// roles, users, user_roles and sessions, in that order.
func DefaultDocument() *schema.SchemaDocument {
	doc, err := schema.ParseDocument([]byte(defaultDocumentJSON))
	if err != nil {
		panic(fmt.Sprintf("built-in default document failed to parse: %v", err))
	}
	return doc
}

const defaultDocumentJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "App Schema",
  "definitions": {
    "roles": {
      "type": "object",
      "title": "Role",
      "properties": {
        "id": {
          "type": "string",
          "format": "uuid",
          "description": "Primary key"
        },
        "name": {
          "type": "string",
          "minLength": 1,
          "maxLength": 80
        },
        "description": {
          "type": "string"
        }
      },
      "required": ["id", "name"],
      "primaryKey": ["id"],
      "additionalProperties": false
    },
    "users": {
      "type": "object",
      "title": "User",
      "properties": {
        "id": {
          "type": "string",
          "format": "uuid",
          "description": "Primary key"
        },
        "email": {
          "type": "string",
          "format": "email"
        },
        "name": {
          "type": "string",
          "minLength": 1,
          "maxLength": 120
        },
        "status": {
          "type": "string",
          "enum": ["active", "invited", "disabled"],
          "default": "invited"
        },
        "is_admin": {
          "type": "boolean",
          "default": false
        },
        "permissions": {
          "type": "array",
          "items": {"type": "string"},
          "uniqueItems": true
        },
        "created_at": {
          "type": "string",
          "format": "date-time",
          "default": "now()"
        }
      },
      "required": ["id", "email"],
      "primaryKey": ["id"],
      "additionalProperties": false,
      "if": {"properties": {"is_admin": {"const": true}}},
      "then": {"required": ["permissions"]}
    },
    "user_roles": {
      "type": "object",
      "title": "User Role",
      "properties": {
        "user_id": {
          "type": "string",
          "format": "uuid",
          "refTable": "users",
          "refColumn": "id",
          "relationshipName": "user",
          "$ref": "#/definitions/users"
        },
        "role_id": {
          "type": "string",
          "format": "uuid",
          "refTable": "roles",
          "refColumn": "id",
          "relationshipName": "role",
          "$ref": "#/definitions/roles"
        }
      },
      "required": ["user_id", "role_id"],
      "primaryKey": ["user_id", "role_id"],
      "additionalProperties": false
    },
    "sessions": {
      "type": "object",
      "title": "Session",
      "properties": {
        "id": {
          "type": "string",
          "format": "uuid",
          "description": "Primary key"
        },
        "user_id": {
          "type": "string",
          "format": "uuid",
          "refTable": "users",
          "refColumn": "id",
          "relationshipName": "user",
          "$ref": "#/definitions/users"
        },
        "token": {
          "type": "string",
          "minLength": 32
        },
        "expires_at": {
          "type": "string",
          "format": "date-time"
        }
      },
      "required": ["id", "user_id", "token"],
      "primaryKey": ["id"],
      "additionalProperties": false
    }
  },
  "required": [],
  "additionalProperties": false
}`
