package main

import (
	"fmt"
	"strconv"

	"github.com/pushp314/devconnect-chat/internal/database"
	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/internal/services"
	"github.com/spf13/cobra"
)

func parseID(s, what string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return uint(id), nil
}

func setRoleCmd(use, short string, role models.GroupRole) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [group-id] [user-id]",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := parseID(args[0], "group id")
			if err != nil {
				return err
			}
			userID, err := parseID(args[1], "user id")
			if err != nil {
				return err
			}
			if err := services.SetRole(database.DB, groupID, userID, role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d is now %s of group %d\n", userID, role, groupID)
			return nil
		},
	}
}

var promoteCmd = setRoleCmd("promote", "Make a member an admin", models.GroupRoleAdmin)

var demoteCmd = setRoleCmd("demote", "Make an admin a regular member", models.GroupRoleMember)

var adminsCmd = &cobra.Command{
	Use:   "admins [group-id]",
	Short: "List the admins of a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := parseID(args[0], "group id")
		if err != nil {
			return err
		}
		admins, err := services.Admins(database.DB, groupID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(admins) == 0 {
			fmt.Fprintf(out, "group %d has no admins\n", groupID)
			return nil
		}
		for _, a := range admins {
			fmt.Fprintf(out, "%d\t%s\t%s\n", a.UserID, a.User.Username, a.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Promote the oldest member of every group that has no admin",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repaired, err := services.RepairOrphanGroups(database.DB)
		for _, id := range repaired {
			fmt.Fprintf(cmd.OutOrStdout(), "repaired group %d\n", id)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d group(s) repaired\n", len(repaired))
		return nil
	},
}
