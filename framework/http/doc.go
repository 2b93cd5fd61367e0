// Package http provides the request and response helpers used by the
// binding inspector.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//	key := req.RouteParam("key")
//	req.WantsYAML()    // ?format=yaml or Accept: application/yaml
//
// # Response
//
//	res := gohttp.NewResponse(w)
//
//	res.JSON(200, data)           // raw JSON with status
//	res.YAML(200, data)           // raw YAML with status
//	res.Success(data)             // 200 {"data": ...}
//
//	res.Error(400, "bad input")   // {"message": "bad input"}
//	res.NotFound()                // 404 {"message": "Not found."}
//	res.MethodNotAllowed()        // 405 {"message": "Method not allowed."}
//	res.ServerError()             // 500 {"message": "Server Error."}
package http
