package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yukikurage/daily-planner-api/internal/database"
	"github.com/yukikurage/daily-planner-api/internal/logging"
	"github.com/yukikurage/daily-planner-api/internal/repository"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

var repairScores bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Recompute every plan's final score and report drift",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		defer database.Close()

		scores := services.NewScoreService(repository.NewStore(database.GetDB()))
		drifts, err := scores.Audit(cmd.Context(), repairScores)
		if err != nil {
			return err
		}

		log := logging.CLI()
		for _, d := range drifts {
			log.WithFields(logrus.Fields{
				"plan_id":  d.PlanID,
				"user_id":  d.UserID,
				"stored":   d.Stored,
				"computed": d.Computed,
			}).Warn("Final score drift")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d drifted plan(s)", len(drifts))
		if repairScores && len(drifts) > 0 {
			fmt.Fprint(cmd.OutOrStdout(), ", repaired")
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	auditCmd.Flags().BoolVar(&repairScores, "repair", false, "rewrite drifted final scores")
}
