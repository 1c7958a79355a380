package handlers

import "net/http"

// NewRouter wires the game API. guessLimit wraps only the guess endpoint and may be nil.
func NewRouter(games *GameHandler, startup *StartupStatus, guessLimit func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	var submit http.Handler = http.HandlerFunc(games.SubmitGuess)
	if guessLimit != nil {
		submit = guessLimit(submit)
	}

	mux.HandleFunc("POST /start-game", games.StartGame)
	mux.Handle("POST /submit-guess", submit)
	mux.HandleFunc("POST /give-up", games.GiveUp)
	mux.HandleFunc("GET /sessions/{id}", games.GetSession)
	mux.HandleFunc("GET /healthz", Healthz)
	mux.HandleFunc("GET /readyz", startup.Readyz)

	return Recover(Logging(CORS(mux)))
}
