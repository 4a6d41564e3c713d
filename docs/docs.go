// Package docs holds the OpenAPI description served under /docs.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}",
        "contact": {}
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/token": {
            "post": {
                "tags": [
                    "auth"
                ],
                "summary": "Zugangstoken anfordern",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.TokenRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.TokenResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Forbidden",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/invoices/draft": {
            "get": {
                "tags": [
                    "invoices"
                ],
                "summary": "Neuer Rechnungsentwurf",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/invoice.Invoice"
                        }
                    }
                }
            }
        },
        "/api/invoices/totals": {
            "post": {
                "tags": [
                    "invoices"
                ],
                "summary": "Summen berechnen",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "description": "Rechnung",
                        "schema": {
                            "$ref": "#/definitions/invoice.Invoice"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.TotalsResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/invoices/validate": {
            "post": {
                "tags": [
                    "invoices"
                ],
                "summary": "Rechnung prüfen",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "step",
                        "type": "integer",
                        "description": "Schritt (1-5)"
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "description": "Rechnung",
                        "schema": {
                            "$ref": "#/definitions/invoice.Invoice"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/invoice.Result"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/invoices/validate-xml": {
            "post": {
                "tags": [
                    "invoices"
                ],
                "summary": "XML-Struktur prüfen",
                "consumes": [
                    "application/xml",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "description": "CII- oder UBL-XML",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/xrechnung.StructureResult"
                        }
                    }
                }
            }
        },
        "/api/invoices/generate": {
            "post": {
                "tags": [
                    "invoices"
                ],
                "summary": "Rechnungsdokument erzeugen",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/xml",
                    "application/pdf",
                    "application/zip"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string",
                        "enum": [
                            "CII",
                            "UBL",
                            "ZUGFeRD",
                            "PDF",
                            "ZIP"
                        ]
                    },
                    {
                        "in": "query",
                        "name": "template",
                        "type": "string"
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "description": "Rechnung",
                        "schema": {
                            "$ref": "#/definitions/invoice.Invoice"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Dokument"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/invoices/parse": {
            "post": {
                "tags": [
                    "invoices"
                ],
                "summary": "XRechnung einlesen",
                "consumes": [
                    "application/xml",
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "description": "CII- oder UBL-XML",
                        "schema": {
                            "type": "string"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/invoicing.ImportResult"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/invoices": {
            "post": {
                "tags": [
                    "invoices"
                ],
                "summary": "Rechnung archivieren",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string",
                        "enum": [
                            "CII",
                            "UBL"
                        ]
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "description": "Rechnung",
                        "schema": {
                            "$ref": "#/definitions/invoice.Invoice"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/dto.CreateInvoiceResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "tags": [
                    "invoices"
                ],
                "summary": "Archivierte Rechnungen",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.InvoiceListResponse"
                        }
                    }
                }
            }
        },
        "/api/invoices/{id}": {
            "get": {
                "tags": [
                    "invoices"
                ],
                "summary": "Archivierte Rechnung",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.ArchivedInvoiceResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/invoices/{id}/download": {
            "get": {
                "tags": [
                    "invoices"
                ],
                "summary": "Archivierte Rechnung herunterladen",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/xml",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    },
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string",
                        "enum": [
                            "xml",
                            "pdf"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Dokument"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/invoices/{id}/download-url": {
            "get": {
                "tags": [
                    "invoices"
                ],
                "summary": "Download-Link anfordern",
                "description": "Signierter, befristeter Link, der ohne Bearer-Token abrufbar ist.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true
                    },
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string",
                        "enum": [
                            "xml",
                            "pdf"
                        ]
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/invoicing.DownloadURL"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/downloads/{token}": {
            "get": {
                "tags": [
                    "invoices"
                ],
                "summary": "Download über signierten Link",
                "produces": [
                    "application/xml",
                    "application/pdf"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "token",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Dokument"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/invoices/upload-url": {
            "post": {
                "tags": [
                    "uploads"
                ],
                "summary": "Upload-URL anfordern",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/dto.UploadURLRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/invoicing.UploadURL"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/uploads/{token}": {
            "put": {
                "tags": [
                    "uploads"
                ],
                "summary": "Datei hochladen",
                "consumes": [
                    "application/pdf",
                    "application/xml",
                    "image/png",
                    "image/jpeg"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "token",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/invoicing.StoredFile"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    },
                    "413": {
                        "description": "Payload Too Large",
                        "schema": {
                            "$ref": "#/definitions/dto.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "tags": [
                    "system"
                ],
                "summary": "Dienststatus",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/dto.HealthResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "dto.TokenRequest": {
            "type": "object",
            "properties": {
                "user": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "dto.TotalsResponse": {
            "type": "object",
            "properties": {
                "totals": {
                    "$ref": "#/definitions/invoice.Totals"
                },
                "rounded": {
                    "$ref": "#/definitions/invoice.Totals"
                }
            }
        },
        "dto.CreateInvoiceResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "invoiceId": {
                    "type": "string"
                },
                "digest": {
                    "type": "string"
                }
            }
        },
        "dto.ArchivedInvoiceResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "invoiceNumber": {
                    "type": "string"
                },
                "format": {
                    "type": "string"
                },
                "recipientName": {
                    "type": "string"
                },
                "issueDate": {
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "netTotal": {
                    "type": "string",
                    "example": "0"
                },
                "taxTotal": {
                    "type": "string",
                    "example": "0"
                },
                "grossTotal": {
                    "type": "string",
                    "example": "0"
                },
                "digest": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "invoice": {
                    "$ref": "#/definitions/invoice.Invoice"
                }
            }
        },
        "dto.InvoiceListResponse": {
            "type": "object",
            "properties": {
                "invoices": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/dto.ArchivedInvoiceResponse"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "dto.UploadURLRequest": {
            "type": "object",
            "properties": {
                "fileName": {
                    "type": "string"
                },
                "mimeType": {
                    "type": "string"
                },
                "fileType": {
                    "type": "string",
                    "description": "Alias für mimeType"
                }
            }
        },
        "auth.TokenResponse": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string"
                },
                "userId": {
                    "type": "string"
                },
                "expiresIn": {
                    "type": "integer"
                }
            }
        },
        "invoicing.DownloadURL": {
            "type": "object",
            "properties": {
                "url": {
                    "type": "string"
                },
                "expiresAt": {
                    "type": "string"
                }
            }
        },
        "invoicing.UploadURL": {
            "type": "object",
            "properties": {
                "url": {
                    "type": "string"
                },
                "key": {
                    "type": "string"
                },
                "expiresAt": {
                    "type": "string"
                }
            }
        },
        "invoicing.StoredFile": {
            "type": "object",
            "properties": {
                "key": {
                    "type": "string"
                },
                "fileName": {
                    "type": "string"
                },
                "mimeType": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                }
            }
        },
        "invoicing.ImportResult": {
            "type": "object",
            "properties": {
                "syntax": {
                    "type": "string"
                },
                "profile": {
                    "type": "string"
                },
                "invoice": {
                    "$ref": "#/definitions/invoice.Invoice"
                },
                "totals": {
                    "$ref": "#/definitions/invoice.Totals"
                },
                "declaredTotals": {
                    "type": "object",
                    "properties": {
                        "netTotal": {
                            "type": "string",
                            "example": "0"
                        },
                        "taxTotal": {
                            "type": "string",
                            "example": "0"
                        },
                        "grossTotal": {
                            "type": "string",
                            "example": "0"
                        },
                        "payableAmount": {
                            "type": "string",
                            "example": "0"
                        }
                    }
                },
                "consistent": {
                    "type": "boolean"
                },
                "validation": {
                    "$ref": "#/definitions/invoice.Result"
                }
            }
        },
        "xrechnung.StructureResult": {
            "type": "object",
            "properties": {
                "isValid": {
                    "type": "boolean"
                },
                "syntax": {
                    "type": "string"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "invoice.Result": {
            "type": "object",
            "properties": {
                "isValid": {
                    "type": "boolean"
                },
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "invoice.TaxGroup": {
            "type": "object",
            "properties": {
                "rate": {
                    "type": "string",
                    "example": "0"
                },
                "base": {
                    "type": "string",
                    "example": "0"
                },
                "tax": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "invoice.Totals": {
            "type": "object",
            "properties": {
                "subtotal": {
                    "type": "string",
                    "example": "0"
                },
                "taxGroups": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/invoice.TaxGroup"
                    }
                },
                "taxAmount": {
                    "type": "string",
                    "example": "0"
                },
                "total": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "invoice.BankDetails": {
            "type": "object",
            "properties": {
                "accountHolder": {
                    "type": "string"
                },
                "bankName": {
                    "type": "string"
                },
                "iban": {
                    "type": "string"
                },
                "bic": {
                    "type": "string"
                }
            }
        },
        "invoice.CompanyInfo": {
            "type": "object",
            "properties": {
                "managingDirector": {
                    "type": "string"
                },
                "commercialRegister": {
                    "type": "string"
                },
                "registerCourt": {
                    "type": "string"
                }
            }
        },
        "invoice.Sender": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "contactName": {
                    "type": "string"
                },
                "street": {
                    "type": "string"
                },
                "zip": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "country": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "logo": {
                    "type": "string"
                },
                "taxId": {
                    "type": "string"
                },
                "ustId": {
                    "type": "string"
                },
                "bankDetails": {
                    "$ref": "#/definitions/invoice.BankDetails"
                },
                "companyInfo": {
                    "$ref": "#/definitions/invoice.CompanyInfo"
                }
            }
        },
        "invoice.Recipient": {
            "type": "object",
            "properties": {
                "name": {
                    "type": "string"
                },
                "street": {
                    "type": "string"
                },
                "zip": {
                    "type": "string"
                },
                "city": {
                    "type": "string"
                },
                "country": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "reference": {
                    "type": "string"
                },
                "department": {
                    "type": "string"
                },
                "contactPerson": {
                    "type": "string"
                }
            }
        },
        "invoice.Metadata": {
            "type": "object",
            "properties": {
                "invoiceNumber": {
                    "type": "string"
                },
                "date": {
                    "type": "string"
                },
                "deliveryDate": {
                    "type": "string"
                },
                "dueDate": {
                    "type": "string"
                },
                "paymentTerms": {
                    "type": "string",
                    "enum": [
                        "net14",
                        "net30",
                        "immediate",
                        "custom"
                    ]
                },
                "customPaymentTerms": {
                    "type": "string"
                },
                "documentTitle": {
                    "type": "string"
                },
                "introductionText": {
                    "type": "string"
                },
                "closingText": {
                    "type": "string"
                },
                "currency": {
                    "type": "string"
                },
                "invoiceTypeCode": {
                    "type": "string"
                },
                "customizationId": {
                    "type": "string"
                },
                "profileId": {
                    "type": "string"
                },
                "taxType": {
                    "type": "string",
                    "enum": [
                        "REGULAR",
                        "KLEINUNTERNEHMER"
                    ]
                }
            }
        },
        "invoice.Item": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "longDescription": {
                    "type": "string"
                },
                "articleNumber": {
                    "type": "string"
                },
                "quantity": {
                    "type": "string",
                    "example": "0"
                },
                "unit": {
                    "type": "string"
                },
                "unitPrice": {
                    "type": "string",
                    "example": "0"
                },
                "taxRate": {
                    "type": "string",
                    "example": "0"
                },
                "discount": {
                    "type": "string",
                    "example": "0"
                }
            }
        },
        "invoice.Invoice": {
            "type": "object",
            "properties": {
                "sender": {
                    "$ref": "#/definitions/invoice.Sender"
                },
                "recipient": {
                    "$ref": "#/definitions/invoice.Recipient"
                },
                "metadata": {
                    "$ref": "#/definitions/invoice.Metadata"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/invoice.Item"
                    }
                }
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "service": {
                    "type": "string"
                },
                "database": {
                    "type": "boolean"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "kostenlose-erechnung API",
	Description:      "XRechnung / ZUGFeRD erzeugen, einlesen und archivieren.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
