package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	identityapp "github.com/safespace/backend/internal/application/identity"
	"github.com/safespace/backend/internal/domain/shared"
	"github.com/safespace/backend/internal/infrastructure/auth"
	"github.com/safespace/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
)

var (
	bootstrapEmail    string
	bootstrapName     string
	bootstrapPassword string
	listRole          string
	listPage          int
	listPageSize      int
)

var createSuperAdminCmd = &cobra.Command{
	Use:   "create-superadmin",
	Short: "Seed the first superAdmin account",
	Long: `Create the first superAdmin. The command refuses to run once any
superAdmin exists; further accounts are managed from the admin panel.

The password may be given with --password or the ADMINCTL_PASSWORD
environment variable, so it does not have to appear in shell history.`,
	RunE: runCreateSuperAdmin,
}

var listAdminsCmd = &cobra.Command{
	Use:   "list-admins",
	Short: "List admin accounts",
	RunE:  runListAdmins,
}

func init() {
	createSuperAdminCmd.Flags().StringVar(&bootstrapEmail, "email", "", "login email [REQUIRED]")
	createSuperAdminCmd.Flags().StringVar(&bootstrapName, "name", "", "display name [REQUIRED]")
	createSuperAdminCmd.Flags().StringVar(&bootstrapPassword, "password", "", "password, at least 8 characters (or ADMINCTL_PASSWORD)")
	_ = createSuperAdminCmd.MarkFlagRequired("email")
	_ = createSuperAdminCmd.MarkFlagRequired("name")

	listAdminsCmd.Flags().StringVar(&listRole, "role", "", "only admins with this role (admin or superAdmin)")
	listAdminsCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listAdminsCmd.Flags().IntVar(&listPageSize, "page-size", 50, "admins per page")
}

func newAdminService(e *env, db *persistence.Database) *identityapp.AdminService {
	repo := persistence.NewGormAdminRepository(db.DB)
	// no sessions exist yet for accounts touched here, so nothing needs revoking
	return identityapp.NewAdminService(repo, auth.NewInMemoryTokenRevoker(), e.cfg.JWT.AccessTokenExpiration, e.log)
}

func runCreateSuperAdmin(cmd *cobra.Command, _ []string) error {
	password := bootstrapPassword
	if password == "" {
		password = os.Getenv("ADMINCTL_PASSWORD")
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters (use --password or ADMINCTL_PASSWORD)")
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	db, err := e.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	info, err := newAdminService(e, db).Bootstrap(cmd.Context(), identityapp.CreateAdminInput{
		Name:     bootstrapName,
		Email:    bootstrapEmail,
		Password: password,
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return fmt.Errorf("%s: %s", domainErr.Code, domainErr.Message)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created superAdmin %s <%s> (%s)\n", info.Name, info.Email, info.ID)
	return nil
}

func runListAdmins(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	db, err := e.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := newAdminService(e, db).List(cmd.Context(), identityapp.ListAdminsInput{
		Role:     listRole,
		Page:     listPage,
		PageSize: listPageSize,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tLAST LOGIN")
	for _, a := range list.Admins {
		lastLogin := "never"
		if a.LastLoginAt != nil {
			lastLogin = a.LastLoginAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Email, a.Role, lastLogin)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d admins\n", len(list.Admins), list.Total)
	return nil
}
