// Package http implements the dashboard HTTP handlers.
//
// Handlers stay thin: they read the validated selection from the request
// context, call the dashboard service and render the result. Successful
// responses are wrapped as
//
//	{"status": "success", "data": ...}
//
// and every failure goes through apierrors.ErrorHandler, which renders
// RFC 7807 problem details.
//
// # Routes
//
//	GET /filters                 distinct months, cities, product lines, payments
//	GET /kpis                    KPI set of the selection
//	GET /rollups/{dimension}     grouped revenue by city, product_line, payment, month or day
//	GET /monthly                 per month summary
//	GET /snapshot                executive snapshot
//	GET /dashboard               every view of the selection in one response
//
// Selections are given as repeatable month, city and product_line query
// parameters.
package http
