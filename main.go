package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/prometheus/client_golang/prometheus"

	"machipower_client/config"
	"machipower_client/metrics"
	"machipower_client/models"
	"machipower_client/services"
	"machipower_client/views"
)

// app bundles the wired services and views behind the interactive shell.
type app struct {
	cfg      *config.Config
	session  *services.SessionService
	contests *services.ContestService
	profiles *services.ProfileService
	uploads  *services.UploadService

	matchView   *views.MatchView
	invitesView *views.InvitesView
}

func main() {
	log.Println("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Wire the services. Every authenticated call acquires its token
	// through the session, so signing out invalidates everything at once.
	session := services.NewSessionService(awsCfg, cfg.CognitoClientID)
	api := services.NewAPIClient(cfg.APIBaseURL, session, m)
	api.HTTPClient.Timeout = cfg.HTTPTimeout()

	contestService := &services.ContestService{API: api}
	directoryService := &services.DirectoryService{API: api}
	preferenceService := &services.PreferenceService{API: api}
	recommendationService := &services.RecommendationService{API: api}
	inviteService := services.NewInviteService(api, m)
	profileService := &services.ProfileService{API: api}
	uploadService := services.NewUploadService(awsCfg, cfg.S3Bucket)

	a := &app{
		cfg:         cfg,
		session:     session,
		contests:    contestService,
		profiles:    profileService,
		uploads:     uploadService,
		matchView:   views.NewMatchView(session, directoryService, preferenceService, recommendationService, inviteService, m),
		invitesView: views.NewInvitesView(session, contestService, directoryService, inviteService, m),
	}

	log.Printf("MachiPower client ready (gateway %s)", cfg.APIBaseURL)
	a.run(os.Stdin)
}

func (a *app) run(input *os.File) {
	ctx := context.Background()
	scanner := bufio.NewScanner(input)

	fmt.Println("Type 'help' for the command list.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}
		if err := a.dispatch(ctx, cmd, args); err != nil {
			reportError(err)
		}
	}
}

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp()
		return nil
	case "signup":
		if len(args) < 3 {
			return usageError("signup <email> <password> <nickname>")
		}
		if err := a.session.SignUp(ctx, args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Println("Registered. Check your inbox for the confirmation code.")
		return nil
	case "confirm":
		if len(args) < 2 {
			return usageError("confirm <email> <code>")
		}
		if err := a.session.Confirm(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Account confirmed. You can sign in now.")
		return nil
	case "login":
		if len(args) < 2 {
			return usageError("login <email> <password>")
		}
		if err := a.session.SignIn(ctx, args[0], args[1]); err != nil {
			return err
		}
		a.invitesView.Init(ctx)
		a.invitesView.Wait()
		fmt.Println("Signed in.")
		return nil
	case "logout":
		a.session.SignOut()
		fmt.Println("Signed out.")
		return nil
	case "contests":
		return a.printContests(ctx)
	case "interest":
		if len(args) < 1 {
			return usageError("interest <contestId>")
		}
		if err := a.contests.RegisterInterest(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Interest recorded.")
		return nil
	case "select":
		contestID := ""
		if len(args) > 0 {
			contestID = args[0]
		}
		if err := a.matchView.Select(ctx, contestID); err != nil {
			return err
		}
		a.matchView.Wait()
		a.printMatchState()
		return nil
	case "prefer":
		if len(args) < 1 {
			return usageError("prefer <skill,skill,...>")
		}
		skills := strings.Split(args[0], ",")
		if err := a.matchView.SubmitPreferences(ctx, skills); err != nil {
			return err
		}
		fmt.Println("Preferences saved.")
		a.printMatchState()
		return nil
	case "recommend":
		if err := a.matchView.RefreshRecommendations(ctx); err != nil {
			return err
		}
		a.printMatchState()
		return nil
	case "invite":
		if len(args) < 1 {
			return usageError("invite <userId>")
		}
		if err := a.matchView.SendInvite(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Invite sent to %s.\n", args[0])
		return nil
	case "invites":
		contestID := ""
		if len(args) > 0 {
			contestID = args[0]
		}
		if err := a.invitesView.Select(ctx, contestID); err != nil {
			return err
		}
		a.invitesView.Wait()
		a.printInvitesState()
		return nil
	case "profile":
		return a.submitProfile(ctx, args)
	case "show":
		a.printMatchState()
		return nil
	default:
		return usageError("unknown command, type 'help'")
	}
}

// submitProfile uploads the optional resume first, then submits the profile
// with the resulting URL, mirroring the profile form's save order.
func (a *app) submitProfile(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("profile <nickname> <major> [skill,skill,...] [resume.pdf]")
	}
	userID, err := a.session.SubjectID()
	if err != nil {
		return err
	}

	profile := models.UserProfile{
		UserID:   userID,
		Nickname: args[0],
		Major:    args[1],
	}
	if len(args) > 2 {
		profile.Skills = models.SkillList(strings.Split(args[2], ","))
	}

	if len(args) > 3 {
		resumePath := args[3]
		f, err := os.Open(resumePath)
		if err != nil {
			return fmt.Errorf("failed to open resume %s: %w", resumePath, err)
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(resumePath))
		key, err := a.uploads.PutResume(ctx, userID, contentType, f)
		if err != nil {
			return err
		}
		url, err := a.uploads.ReadURL(ctx, key)
		if err != nil {
			return err
		}
		profile.ResumeURL = url
	}

	if err := a.profiles.Create(ctx, profile); err != nil {
		return err
	}
	fmt.Println("Profile saved.")
	return nil
}

func (a *app) printContests(ctx context.Context) error {
	contests, err := a.contests.LoadContests(ctx)
	if err != nil {
		return err
	}
	if len(contests) == 0 {
		fmt.Println("No available competitions. Please try again later.")
		return nil
	}
	for _, c := range contests {
		fmt.Printf("  %-24s %s (%s - %s)\n", c.ContestID, c.DisplayName(), c.StartTime, c.EndTime)
	}
	return nil
}

func (a *app) printMatchState() {
	s := a.matchView.Snapshot()
	if s.ContestID == "" {
		fmt.Println("No contest selected.")
		return
	}
	fmt.Printf("Contest: %s\n", s.ContestID)

	if guidance := a.matchView.Guidance(); guidance != "" {
		fmt.Println(guidance)
	}
	for _, rec := range s.Recommendations {
		label := a.matchView.TargetState(rec.UserID)
		fmt.Printf("  %-24s %-16s score=%.0f matched=%s [%s]\n",
			rec.UserID, rec.Name, rec.MatchScore, strings.Join(rec.MatchedSkills, ","), label)
	}

	if s.SentErr != nil {
		fmt.Println("Couldn't load sent invites. Please try again.")
	} else if len(s.SentInvites) > 0 {
		fmt.Printf("Sent invites: %s\n", strings.Join(s.SentInvites, ", "))
	}
	if s.ReceivedErr != nil {
		fmt.Println("Couldn't load received invites. Please try again.")
	} else {
		for _, invite := range s.ReceivedInvites {
			profile, ok := s.Directory[invite.FromID]
			if !ok {
				profile = models.UserProfile{UserID: invite.FromID}
			}
			fmt.Printf("  invite from %s\n", profile.DisplayName())
		}
	}
}

func (a *app) printInvitesState() {
	s := a.invitesView.Snapshot()
	if s.ContestID == "" {
		fmt.Println("No contest selected.")
		return
	}
	fmt.Printf("Invites for contest %s\n", s.ContestID)

	fmt.Println("Sent:")
	if s.SentErr != nil {
		fmt.Println("  couldn't load sent invites")
	} else if len(s.Sent) == 0 {
		fmt.Println("  none")
	}
	for _, row := range s.Sent {
		fmt.Printf("  %-20s %-16s %s\n", row.Nickname, row.Major, strings.Join(row.Skills, ","))
	}

	fmt.Println("Received:")
	if s.ReceivedErr != nil {
		fmt.Println("  couldn't load received invites")
	} else if len(s.Received) == 0 {
		fmt.Println("  none")
	}
	for _, row := range s.Received {
		fmt.Printf("  %-20s %-16s %s\n", row.Nickname, row.Major, strings.Join(row.Skills, ","))
	}
}

func printHelp() {
	fmt.Println(`Commands:
  signup <email> <password> <nickname>
  confirm <email> <code>
  login <email> <password>
  logout
  contests
  interest <contestId>
  select [contestId]
  prefer <skill,skill,...>
  recommend
  invite <userId>
  invites [contestId]
  profile <nickname> <major> [skill,skill,...] [resume.pdf]
  show
  quit`)
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

// reportError turns the error taxonomy into the messages the UI would show.
func reportError(err error) {
	var validation *services.ValidationError
	var remote *services.RemoteError

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		fmt.Println("Please sign in again.")
	case errors.Is(err, services.ErrAlreadyInvited):
		fmt.Println("Already invited.")
	case errors.As(err, &validation):
		fmt.Printf("Invalid input - %s\n", validation.Message)
	case errors.As(err, &remote):
		log.Printf("Remote call failed: %v", remote)
		fmt.Println("Something went wrong. Please try again.")
	default:
		fmt.Printf("Error: %v\n", err)
	}
}
