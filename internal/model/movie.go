package model

// Movie is one title on the billboard.  Movies are owned by the admin
// catalog screens; the ticketing core only reads them to label tickets.
//
// Fields:
//  ID          – catalog identifier.
//  Title       – display title, used in ticket line names.
//  Duration    – running time in minutes.
//  Rating      – audience rating (G, PG, PG-13, R).
//  Genre       – comma separated genres.
//  Image       – poster URL.
//  Description – synopsis.
//  Format      – projection format, "2D" or "3D".
type Movie struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	Rating      string `json:"rating"`
	Genre       string `json:"genre"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Format      string `json:"format"`
}
