// Package utils provides the HTTP helpers shared by the resource handlers.
//
// Handlers decode bodies with DecodeJSON, parse path ids with URLParamUUID and
// reply through RenderJSON or RenderError, which turns a structured error
// from pkg/errors into the matching status code:
//
//	id, err := utils.URLParamUUID(r, "roleId")
//	if err != nil {
//		utils.RenderError(w, r, err)
//		return
//	}
//
// Error bodies look like:
//
//	{"status":"error","code":"NOT_FOUND","message":"role not found with ID: ..."}
package utils
