package api

// Wire DTOs for the Completed It Mate REST API.

type gameDTO struct {
	ID                string   `json:"_id"`
	Slug              string   `json:"slug"`
	Title             string   `json:"title"`
	ImageURL          *string  `json:"imageUrl"`
	ParentPlatforms   []string `json:"parentPlatforms"`
	Genres            []string `json:"genres"`
	ReleaseDate       *string  `json:"releaseDate"`
	AvgCompletionTime float64  `json:"avgCompletionTime"`
	CompletedCount    int      `json:"completedCount"`
	Metacritic        *struct {
		Score float64 `json:"score"`
		URL   string  `json:"url"`
	} `json:"metacritic"`
}

type gameDetailDTO struct {
	gameDTO
	Description string   `json:"description"`
	Developers  []string `json:"developers"`
	Publishers  []string `json:"publishers"`
	Screenshots []string `json:"screenshots"`
	StoreLinks  []struct {
		Store string `json:"store"`
		URL   string `json:"url"`
	} `json:"storeLinks"`

	// Present only when the request carried x-user-id and the game is in
	// that user's library.
	UserStatus string `json:"userStatus"`
	UserGameID string `json:"userGameId"`
}

type pagedGamesDTO struct {
	Items []gameDTO `json:"items"`
	Total int       `json:"total"`
}

type facetsDTO struct {
	Platforms []facetOptionDTO `json:"platforms"`
	Genres    []facetOptionDTO `json:"genres"`
	YearMin   int              `json:"yearMin"`
	YearMax   int              `json:"yearMax"`
}

type facetOptionDTO struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// libraryItemDTO is a populated entry from GET /library.
type libraryItemDTO struct {
	ID        string  `json:"_id"`
	UserID    string  `json:"userId"`
	Status    string  `json:"status"`
	Game      gameDTO `json:"gameId"` // populated by the server
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// createdEntryDTO is the POST /library response; gameId is NOT populated.
type createdEntryDTO struct {
	ID        string `json:"_id"`
	UserID    string `json:"userId"`
	GameID    string `json:"gameId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type anonymousUserDTO struct {
	UserID string `json:"userId"`
}

type profileDTO struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	GameCount int    `json:"gameCount"`
	CreatedAt string `json:"createdAt"`
}

type communityDashboardDTO struct {
	TotalUsers     int            `json:"totalUsers"`
	TotalEntries   int            `json:"totalEntries"`
	TotalCompleted int            `json:"totalCompleted"`
	ByStatus       map[string]int `json:"byStatus"`
	RecentUsers    []profileDTO   `json:"recentUsers"`
}
