package handlers

// @title Math Expression API
// @version 1.0
// @description Evaluates arithmetic expressions
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @tag.name calculator
// @tag.description Expression evaluation
