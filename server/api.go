package server

import (
	"net/http"

	"github.com/cyclopcam/www"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) setupHttpRoutes() {
	router := httprouter.New()

	route := func(method, path string, handle httprouter.Handle) {
		www.Handle(s.Log, router, method, path, handle)
	}

	route("GET", "/api/ping", s.httpPing)

	route("POST", "/api/analyze", s.httpAnalyzeVideo)
	route("GET", "/api/analysis/:id", s.httpGetAnalysis)
	route("DELETE", "/api/analysis/:id", s.httpDeleteAnalysis)
	route("GET", "/api/analysis/:id/video", s.httpGetAnalysisVideo)
	route("GET", "/api/analysis/:id/thumbnail", s.httpGetAnalysisThumbnail)
	route("GET", "/api/analyses/user/:userID", s.httpListUserAnalyses)

	route("GET", "/api/ws/progress/:jobID", s.httpProgressFeed)

	s.httpRouter = router
}

func (s *Server) httpPing(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	www.SendText(w, "pong")
}
