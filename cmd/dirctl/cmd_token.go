package main

import (
	"errors"
	"fmt"

	"directory-service/internal/config"
	"directory-service/internal/domain/auth"
	"directory-service/internal/pkg/jwt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Development access tokens",
	}

	var subject, email string
	var roles []string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign an access token with JWT_PRIVATE_KEY_PATH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, r := range roles {
				switch r {
				case auth.RoleAdmin, auth.RoleOwner, auth.RoleRecruiter:
				default:
					return fmt.Errorf("unknown role %q", r)
				}
			}
			mgr, err := jwt.LoadAndBuild(config.Load().JWT)
			if err != nil {
				return err
			}
			if mgr.Generator == nil {
				return errors.New("JWT_PRIVATE_KEY_PATH is not set")
			}
			token, jti, err := mgr.Generator.GenerateAccessToken(subject, email, roles)
			if err != nil {
				return err
			}
			logger.Debug("issued token", zap.String("sub", subject), zap.String("jti", jti), zap.Strings("roles", roles))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issue.Flags().StringVar(&subject, "sub", "", "Token subject (user id)")
	issue.Flags().StringVar(&email, "email", "", "Email claim")
	issue.Flags().StringSliceVar(&roles, "role", nil, "Role to grant; repeatable (admin, owner, recruiter)")
	_ = issue.MarkFlagRequired("sub")

	cmd.AddCommand(issue)
	return cmd
}
