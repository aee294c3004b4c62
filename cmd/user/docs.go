package main

// @title User Favorites API
// @version 1.0
// @description User directory with a directed favorites graph and role-gated access

// @contact.name API Support

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Authentication endpoints

// @tag.name Users
// @tag.description User management endpoints

// @tag.name Favorites
// @tag.description Favorite edges between users

// @tag.name Admin
// @tag.description Admin-only endpoints

// @tag.name Health
// @tag.description Health check endpoints
