// Package docs holds the OpenAPI document served under /api/swagger.
// Regenerate it with `swag init` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/login": {
            "post": {
                "description": "Checks the admin credentials and starts a session cookie",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Admin login",
                "parameters": [
                    {
                        "description": "Admin credentials",
                        "name": "credentials",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "description": "Revokes the current session and clears the cookie",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Admin logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"AdminSession": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current admin",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.Principal"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Registration (disabled)",
                "responses": {
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/orders": {
            "post": {
                "description": "Stores a checkout as a pending order",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Place an order",
                "parameters": [
                    {
                        "description": "Order payload",
                        "name": "order",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.OrderRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/admin/orders": {
            "get": {
                "security": [{"AdminSession": []}],
                "description": "Returns every order, newest first",
                "produces": ["application/json"],
                "tags": ["admin-orders"],
                "summary": "List orders",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Order"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/admin/orders/replay-failed-events": {
            "post": {
                "security": [{"AdminSession": []}],
                "description": "Republishes order events whose publish failed earlier",
                "produces": ["application/json"],
                "tags": ["admin-orders"],
                "summary": "Replay failed order events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ReplayReport"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/admin/orders/{id}": {
            "get": {
                "security": [{"AdminSession": []}],
                "produces": ["application/json"],
                "tags": ["admin-orders"],
                "summary": "Get an order",
                "parameters": [{"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            },
            "delete": {
                "security": [{"AdminSession": []}],
                "produces": ["application/json"],
                "tags": ["admin-orders"],
                "summary": "Delete an order",
                "parameters": [{"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/admin/orders/{id}/status": {
            "put": {
                "security": [{"AdminSession": []}],
                "description": "Moves the order to pending, in-progress, delivered or cancelled. Entering delivered adjusts stock once.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin-orders"],
                "summary": "Change an order's status",
                "parameters": [
                    {"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "New status",
                        "name": "status",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.StatusRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/admin/orders/{id}/reconcile": {
            "post": {
                "security": [{"AdminSession": []}],
                "description": "Retries the stock adjustment of items a storage failure left unadjusted",
                "produces": ["application/json"],
                "tags": ["admin-orders"],
                "summary": "Finish a delivered order's stock adjustment",
                "parameters": [{"type": "string", "description": "Order ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/products": {
            "get": {
                "description": "Returns the catalog, optionally filtered by category",
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "parameters": [{"type": "string", "description": "Category, or all", "name": "category", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/inventory.Product"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/products/featured": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Featured products",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/inventory.Product"}}}
                }
            }
        },
        "/api/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get product by ID",
                "parameters": [{"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/inventory.Product"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/admin/products": {
            "get": {
                "security": [{"AdminSession": []}],
                "produces": ["application/json"],
                "tags": ["admin-products"],
                "summary": "List products",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/inventory.Product"}}}
                }
            },
            "post": {
                "security": [{"AdminSession": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin-products"],
                "summary": "Add a product",
                "parameters": [
                    {
                        "description": "Product",
                        "name": "product",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/inventory.Product"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/inventory.Product"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/admin/products/{id}": {
            "put": {
                "security": [{"AdminSession": []}],
                "description": "Applies the fields present in the body; the sold counter cannot be edited",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin-products"],
                "summary": "Edit a product",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "patch",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/inventory.ProductPatch"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/inventory.Product"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            },
            "delete": {
                "security": [{"AdminSession": []}],
                "produces": ["application/json"],
                "tags": ["admin-products"],
                "summary": "Delete a product",
                "parameters": [{"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/admin/products/low-stock/{threshold}": {
            "get": {
                "security": [{"AdminSession": []}],
                "description": "Retrieves products whose stock, or any variant's stock, is below threshold",
                "produces": ["application/json"],
                "tags": ["admin-products"],
                "summary": "Get low stock products",
                "parameters": [{"type": "integer", "description": "Stock threshold", "name": "threshold", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/inventory.Product"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        },
        "/api/admin/stats": {
            "get": {
                "security": [{"AdminSession": []}],
                "description": "Revenue and units sold over delivered orders, with a seven day revenue chart",
                "produces": ["application/json"],
                "tags": ["admin-stats"],
                "summary": "Dashboard figures",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/stats.Dashboard"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.MessageResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.MessageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.Principal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "domain.Customer": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "location": {"type": "string"},
                "deliveryDate": {"type": "string"}
            }
        },
        "domain.Item": {
            "type": "object",
            "properties": {
                "productId": {"type": "string"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer"},
                "image": {"type": "string"}
            }
        },
        "domain.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "customer": {"$ref": "#/definitions/domain.Customer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.Item"}},
                "total": {"type": "number"},
                "status": {"type": "string", "enum": ["pending", "in-progress", "delivered", "cancelled"]},
                "createdAt": {"type": "string"},
                "deliveredAt": {"type": "string"},
                "stockAdjusted": {"type": "array", "items": {"type": "integer"}},
                "fulfillmentComplete": {"type": "boolean"}
            }
        },
        "domain.ReplayReport": {
            "type": "object",
            "properties": {
                "replayed": {"type": "integer"},
                "failed": {"type": "integer"}
            }
        },
        "inventory.Variant": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "stock": {"type": "integer"}
            }
        },
        "inventory.Product": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number"},
                "originalPrice": {"type": "number"},
                "images": {"type": "array", "items": {"type": "string"}},
                "category": {"type": "string"},
                "rating": {"type": "number"},
                "reviews": {"type": "integer"},
                "sold": {"type": "integer"},
                "stockCount": {"type": "integer"},
                "variants": {"type": "array", "items": {"$ref": "#/definitions/inventory.Variant"}},
                "isFeatured": {"type": "boolean"},
                "createdAt": {"type": "string"}
            }
        },
        "inventory.ProductPatch": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "price": {"type": "number"},
                "originalPrice": {"type": "number"},
                "category": {"type": "string"},
                "images": {"type": "array", "items": {"type": "string"}},
                "stockCount": {"type": "integer"},
                "variants": {"type": "array", "items": {"$ref": "#/definitions/inventory.Variant"}},
                "isFeatured": {"type": "boolean"}
            }
        },
        "models.CustomerRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "phone": {"type": "string"},
                "location": {"type": "string"},
                "deliveryDate": {"type": "string"}
            }
        },
        "models.OrderItemRequest": {
            "type": "object",
            "properties": {
                "productId": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "color": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "integer"},
                "image": {"type": "string"}
            }
        },
        "models.OrderRequest": {
            "type": "object",
            "properties": {
                "customer": {"$ref": "#/definitions/models.CustomerRequest"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.OrderItemRequest"}},
                "total": {"type": "number"},
                "date": {"type": "string"}
            }
        },
        "models.StatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "delivered"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.LoginResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "token": {"type": "string"},
                "expiresAt": {"type": "string"}
            }
        },
        "models.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "stats.DayRevenue": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "amount": {"type": "number"}
            }
        },
        "stats.Dashboard": {
            "type": "object",
            "properties": {
                "totalRevenue": {"type": "number"},
                "totalProductsSold": {"type": "integer"},
                "weeklyRevenue": {"type": "number"},
                "chartData": {"type": "array", "items": {"$ref": "#/definitions/stats.DayRevenue"}}
            }
        }
    },
    "securityDefinitions": {
        "AdminSession": {
            "description": "Session token from /api/auth/login, sent as \"Bearer <token>\". The admin_session cookie is accepted too.",
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
	Title:            "BagBanter API",
	Description:      "Storefront catalog, checkout and the admin order desk.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
