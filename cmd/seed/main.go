package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dispatchqa/config"
	"dispatchqa/internal/model"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDatabase)

	seedQuestions(ctx, db)
	seedCalls(ctx, db)
	seedCoachingTasks(ctx, db)

	fmt.Println("Seed complete")
}

func seedQuestions(ctx context.Context, db *mongo.Database) {
	coll := db.Collection("questions")

	questions := []model.Question{
		{
			ID:               "location",
			OriginalQuestion: "Was the location of the incident obtained?",
			CallTypes:        []string{model.CallTypeAll},
			Confidence:       95,
			Evidence:         "Operator: 'Can you tell me your exact address?' Caller: '123 Main Street, apartment 4B.'",
			Position:         1,
		},
		{
			ID:               "phoneNumber",
			OriginalQuestion: "Was the phone number verified?",
			CallTypes:        []string{model.CallTypeAll},
			Confidence:       88,
			Evidence:         "Operator confirmed callback number at 00:45 in the call.",
			Position:         2,
		},
		{
			ID:               "emergencyNature",
			OriginalQuestion: "Was the nature of the emergency determined?",
			CallTypes:        []string{model.CallTypeAll},
			Confidence:       92,
			Evidence:         "Caller: 'I'm having chest pain, it's really bad.' Nature clearly identified as medical emergency.",
			Position:         3,
		},
		{
			ID:               "callerName",
			OriginalQuestion: "Was the caller's name gathered?",
			CallTypes:        []string{model.CallTypeAll},
			Confidence:       45,
			Evidence:         "No explicit request for caller's name found in transcript.",
			Position:         4,
		},
		{
			ID:               "safetyConcerns",
			OriginalQuestion: "Were safety concerns assessed?",
			CallTypes:        []string{model.CallTypeAll},
			Confidence:       78,
			Evidence:         "Operator: 'Are you having trouble breathing?' Safety assessment performed.",
			Position:         5,
		},
		{
			ID:               "callbackInfo",
			OriginalQuestion: "Was callback information confirmed?",
			CallTypes:        []string{model.CallTypeAll},
			Confidence:       52,
			Evidence:         "Callback number not explicitly confirmed in transcript.",
			Position:         6,
		},
		{
			ID:               "respondersNotified",
			OriginalQuestion: "Were responders appropriately notified?",
			CallTypes:        []string{model.CallTypeAll},
			Confidence:       98,
			Evidence:         "Operator: 'Help is on the way.' Ambulance dispatched at 00:30.",
			Position:         7,
		},
	}

	for i := range questions {
		questions[i].CreatedAt = time.Now().UTC()
		if err := upsertByID(ctx, coll, questions[i].ID, questions[i]); err != nil {
			log.Fatalf("Failed to seed question %s: %v", questions[i].ID, err)
		}
	}
	fmt.Printf("Seeded %d questions\n", len(questions))
}

func seedCalls(ctx context.Context, db *mongo.Database) {
	coll := db.Collection("calls")

	grade1, grade3 := 92, 88
	processed1 := mustParse("2024-01-15 14:23:45")
	processed2 := mustParse("2024-01-15 14:19:05")
	processed3 := mustParse("2024-01-15 14:06:12")

	calls := []model.Call{
		{
			ID:             "call-2024-001",
			FileName:       "call_2024_001.mp3",
			Dispatcher:     "Sarah Johnson",
			Language:       "English",
			Model:          "GPT-4",
			CallType:       "Medical",
			Submitted:      mustParse("2024-01-15 14:23:15"),
			Processed:      &processed1,
			Duration:       "4:32",
			Status:         model.CallProcessed,
			Sentiment:      model.SentimentNeutral,
			SentimentScore: 65,
			GradeScore:     &grade1,
			Summary:        "Caller reported chest pain. Dispatcher obtained address, confirmed symptoms, and dispatched ambulance. Professional tone maintained throughout.",
			Transcript: "Dispatcher: 911, what's your emergency?\n" +
				"Caller: I'm having chest pain, it's really bad.\n" +
				"Dispatcher: Okay, I'm sending help right away. Can you tell me your exact address?\n" +
				"Caller: 123 Main Street, apartment 4B.\n" +
				"Dispatcher: Thank you. Are you having trouble breathing?\n" +
				"Caller: A little bit, yes.\n" +
				"Dispatcher: Help is on the way. Stay on the line with me.",
		},
		{
			ID:             "call-2024-002",
			FileName:       "call_2024_002.mp3",
			Dispatcher:     "Mike Chen",
			Language:       "English",
			Model:          "GPT-4",
			CallType:       "Fire",
			Submitted:      mustParse("2024-01-15 14:18:22"),
			Processed:      &processed2,
			Duration:       "3:15",
			Status:         model.CallProcessing,
			Sentiment:      model.SentimentNegative,
			SentimentScore: 35,
			Summary:        "Structure fire reported at commercial building. Multiple units dispatched. Caller evacuated safely.",
			Transcript: "Dispatcher: 911, what's your emergency?\n" +
				"Caller: There's a fire! The building is on fire!\n" +
				"Dispatcher: Where are you located?\n" +
				"Caller: 456 Oak Avenue, it's the office building!\n" +
				"Dispatcher: Are you in a safe location?\n" +
				"Caller: Yes, I'm outside now.\n" +
				"Dispatcher: Fire department is on the way. Stay clear of the building.",
		},
		{
			ID:             "call-2024-003",
			FileName:       "call_2024_003.mp3",
			Dispatcher:     "Emily Rodriguez",
			Language:       "Spanish",
			Model:          "GPT-4",
			CallType:       "Traffic",
			Submitted:      mustParse("2024-01-15 14:05:33"),
			Processed:      &processed3,
			Duration:       "2:48",
			Status:         model.CallProcessed,
			Sentiment:      model.SentimentNeutral,
			SentimentScore: 58,
			GradeScore:     &grade3,
			Summary:        "Multi-vehicle accident on Highway 101. No injuries reported. Traffic control dispatched.",
			Transcript: "Dispatcher: 911, what's your emergency?\n" +
				"Caller: There's been an accident on Highway 101.\n" +
				"Dispatcher: Can you describe what happened?\n" +
				"Caller: Three cars collided. Everyone seems okay.\n" +
				"Dispatcher: What's your location on the highway?\n" +
				"Caller: Near exit 42, northbound.\n" +
				"Dispatcher: Help is on the way. Stay in your vehicle if it's safe.",
		},
		{
			ID:             "call-2024-004",
			FileName:       "call_2024_004.mp3",
			Dispatcher:     "David Kim",
			Language:       "English",
			Model:          "GPT-3.5",
			CallType:       "Shooting",
			Submitted:      mustParse("2024-01-15 13:52:18"),
			Duration:       "6:21",
			Status:         model.CallFailed,
			Sentiment:      model.SentimentNegative,
			SentimentScore: 22,
			Summary:        "Processing failed due to audio quality issues.",
			Transcript:     "Transcript unavailable - processing failed.",
		},
		{
			ID:             "call-2024-005",
			FileName:       "call_2024_005.mp3",
			Dispatcher:     "Lisa Anderson",
			Language:       "English",
			Model:          "GPT-4",
			CallType:       "Medical",
			Submitted:      mustParse("2024-01-15 13:45:09"),
			Duration:       "5:12",
			Status:         model.CallQueued,
			Sentiment:      model.SentimentNeutral,
			SentimentScore: 50,
			Summary:        "Awaiting processing...",
			Transcript:     "Transcript will be available after processing.",
		},
	}

	for _, call := range calls {
		if err := upsertByID(ctx, coll, call.ID, call); err != nil {
			log.Fatalf("Failed to seed call %s: %v", call.ID, err)
		}
	}
	fmt.Printf("Seeded %d calls\n", len(calls))
}

func seedCoachingTasks(ctx context.Context, db *mongo.Database) {
	coll := db.Collection("coaching_tasks")

	tasks := []model.CoachingTask{
		{
			ID:            "ct-001",
			CallTakerID:   "ct-michael",
			CallTakerName: "Michael Chen",
			FocusArea:     "Information Gathering",
			DueDate:       mustParseDate("2025-01-19"),
			Status:        model.CoachingPending,
			Priority:      model.PriorityMedium,
			IssueDescription: "Location verification protocol not followed during emergency call. " +
				"Address was confirmed only once, which does not meet APCO standards requiring double " +
				"verification for all location information. This could lead to delayed response times in critical situations.",
			CoachingSuggestions: []string{
				"Review the importance of double location verification in emergency protocols",
				"Use memory aids or checklist during calls to ensure all verification steps are completed",
				"Practice active listening techniques to catch location details accurately",
				"Understand the consequences of incomplete location verification on response times",
			},
			ActionItems: []model.ActionItem{
				{Text: "Complete refresher training module on location verification"},
				{Text: "Shadow experienced call taker during next shift"},
				{Text: "Review APCO location verification standards documentation"},
				{Text: "Practice with simulation scenarios focusing on location gathering"},
			},
			CreatedDate: mustParseDate("2025-01-15"),
		},
		{
			ID:            "ct-002",
			CallTakerID:   "ct-sarah",
			CallTakerName: "Sarah Johnson",
			FocusArea:     "Caller Management",
			DueDate:       mustParseDate("2025-01-22"),
			Status:        model.CoachingInProgress,
			Priority:      model.PriorityLow,
			IssueDescription: "Demonstrated excellent technical skills but could improve on managing " +
				"highly emotional callers. During a medical emergency call, the caller became increasingly " +
				"agitated, and while the dispatcher maintained professionalism, additional de-escalation " +
				"techniques could have been employed.",
			CoachingSuggestions: []string{
				"Learn advanced de-escalation techniques for highly emotional situations",
				"Practice using calming voice modulation and pacing",
				"Develop empathy statements that acknowledge caller emotions while maintaining control",
				"Study crisis intervention communication strategies",
			},
			ActionItems: []model.ActionItem{
				{Text: "Attend emotional intelligence workshop", Completed: true},
				{Text: "Review de-escalation training videos", Completed: true},
				{Text: "Role-play scenarios with supervisor"},
				{Text: "Implement learned techniques in next 5 calls"},
			},
			CreatedDate: mustParseDate("2025-01-12"),
		},
		{
			ID:            "ct-003",
			CallTakerID:   "ct-david",
			CallTakerName: "David Kim",
			FocusArea:     "Protocol Compliance",
			DueDate:       mustParseDate("2025-01-25"),
			Status:        model.CoachingPending,
			Priority:      model.PriorityHigh,
			IssueDescription: "Failed to follow medical pre-arrival instructions protocol during a cardiac " +
				"emergency. The dispatcher did not provide CPR instructions to the caller despite the caller " +
				"indicating the patient was unconscious and not breathing. This is a critical protocol violation " +
				"that could impact patient outcomes.",
			CoachingSuggestions: []string{
				"Immediate review of medical pre-arrival instruction protocols",
				"Understand the legal and ethical implications of protocol non-compliance",
				"Practice recognition of situations requiring immediate medical instructions",
				"Develop confidence in providing life-saving instructions over the phone",
			},
			ActionItems: []model.ActionItem{
				{Text: "Complete mandatory medical protocol recertification"},
				{Text: "One-on-one session with medical dispatch supervisor"},
				{Text: "Review case study of the incident with QA team"},
				{Text: "Pass medical protocol assessment before returning to active duty"},
			},
			CreatedDate: mustParseDate("2025-01-14"),
		},
	}

	for _, task := range tasks {
		if err := upsertByID(ctx, coll, task.ID, task); err != nil {
			log.Fatalf("Failed to seed coaching task %s: %v", task.ID, err)
		}
	}
	fmt.Printf("Seeded %d coaching tasks\n", len(tasks))
}

func upsertByID(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) error {
	opts := options.Replace().SetUpsert(true)
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func mustParse(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad timestamp %q: %v\n", value, err)
		os.Exit(1)
	}
	return t
}

func mustParseDate(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad date %q: %v\n", value, err)
		os.Exit(1)
	}
	return t
}
