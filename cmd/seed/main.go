// Command seed inserts a demo tournament: teams, two round-robin groups, a few played
// matches and their standings. Running it again leaves an already seeded database alone.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/soccer-web/brackets"
	"github.com/Dosada05/soccer-web/config"
	"github.com/Dosada05/soccer-web/db"
	"github.com/Dosada05/soccer-web/models"
	"github.com/Dosada05/soccer-web/repositories"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	dbConn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbConn.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, dbConn, cfg.DatabaseDriver); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	if err := seed(ctx, dbConn); err != nil {
		logger.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("demo data inserted")
}

func seed(ctx context.Context, dbConn *sql.DB) (err error) {
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	detailRepo := repositories.NewPostgresGroupDetailRepository(dbConn)

	const tournamentName = "Copa Demo"
	existing, err := tournamentRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, t := range existing {
		if t.Name == tournamentName {
			slog.Warn("demo tournament already exists, nothing to do", "tournament_id", t.ID)
			return nil
		}
	}

	// Teams are created outside the transaction, so a run that failed later left them
	// behind. Reuse them by name.
	names := []string{"Atlético Norte", "Deportivo Sur", "Real Oeste", "Unión Este", "Club Centro", "Sporting Río"}
	stored, err := teamRepo.List(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]*models.Team, len(stored))
	for i := range stored {
		byName[stored[i].Name] = &stored[i]
	}
	teams := make([]*models.Team, 0, len(names))
	for _, name := range names {
		team, ok := byName[name]
		if !ok {
			team = &models.Team{Name: name}
			if err := teamRepo.Create(ctx, team); err != nil {
				return err
			}
		}
		teams = append(teams, team)
	}

	tx, err := dbConn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	tournament := &models.Tournament{
		Name:      tournamentName,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 30),
		IsActive:  true,
	}
	if err = tournamentRepo.Create(ctx, tx, tournament); err != nil {
		return err
	}

	groups := map[string][]*models.Team{
		"Grupo A": teams[:3],
		"Grupo B": teams[3:],
	}
	// Results of played matches in calendar order; later fixtures stay unplayed
	scores := [][2]int{{2, 1}, {0, 0}, {1, 3}}

	for _, groupName := range []string{"Grupo A", "Grupo B"} {
		members := groups[groupName]
		group := &models.Group{Name: groupName, Tournament: tournament}
		if err = groupRepo.Create(ctx, tx, group); err != nil {
			return err
		}

		standings := make([]models.GroupDetail, len(members))
		index := make(map[int]int, len(members))
		for i, team := range members {
			standings[i] = models.GroupDetail{GroupID: group.ID, Team: team}
			index[team.ID] = i
		}

		fixtures, genErr := brackets.RoundRobin(brackets.RoundRobinParams{
			GroupID:           group.ID,
			Teams:             members,
			FirstDate:         start.AddDate(0, 0, 1),
			DaysBetweenRounds: 4,
		})
		if genErr != nil {
			return genErr
		}

		for i := range fixtures {
			match := &fixtures[i]
			if i < len(scores) {
				gl, gv := scores[i][0], scores[i][1]
				match.GoalsLocal, match.GoalsVisitor, match.IsClosed = &gl, &gv, true
				record(&standings[index[match.Local.ID]], gl, gv)
				record(&standings[index[match.Visitor.ID]], gv, gl)
			}
			if err = matchRepo.Create(ctx, tx, match); err != nil {
				return err
			}
		}

		for i := range standings {
			if err = detailRepo.Create(ctx, tx, &standings[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func record(d *models.GroupDetail, scored, conceded int) {
	d.MatchesPlayed++
	d.GoalsFor += scored
	d.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		d.MatchesWon++
	case scored < conceded:
		d.MatchesLost++
	default:
		d.MatchesTied++
	}
}
